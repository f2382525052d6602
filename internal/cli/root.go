package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/coresched/internal/dispatch"
	"github.com/ppiankov/coresched/internal/launch"
	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

// version is set by ldflags at build time.
var version = "dev"

// Exit codes beyond the child-status passthrough of the launch
// flow. Fatal classes get sysexits codes so scripts can tell a bad
// invocation from a rejected kernel request.
const (
	exitNoCookie = 1  // --get on a subject without a cookie
	exitUsage    = 64 // EX_USAGE
	exitKernel   = 71 // EX_OSERR
)

var (
	getPIDs     []string
	newPIDs     []string
	copyCookie  bool
	sourcePIDs  []string
	destPIDs    []string
	scopeType   string
	verbose     bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "coresched [--new PID | --get PID | --copy -s PID -d PID | [-s PID] -- PROGRAM [ARGS...]]",
	Short: "Manage core scheduling cookies for tasks",
	Long: "Assigns, inspects and copies the kernel tags that decide which tasks\n" +
		"may share the hyperthreads of one physical core. With a trailing\n" +
		"program, runs it under a new cookie (or the cookie of --source).",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	f := rootCmd.Flags()
	// POSIX-style: the first positional token ends flag parsing, so
	// the target program's own flags are never consumed here.
	f.SetInterspersed(false)
	f.StringArrayVarP(&getPIDs, "get", "g", nil, "get the core scheduling cookie of PID")
	f.StringArrayVarP(&newPIDs, "new", "n", nil, "assign a new core scheduling cookie to PID")
	f.BoolVarP(&copyCookie, "copy", "c", false, "copy the core scheduling cookie from --source to --dest")
	f.StringArrayVarP(&sourcePIDs, "source", "s", nil, "PID to copy the core scheduling cookie from")
	f.StringArrayVarP(&destPIDs, "dest", "d", nil, "PID to copy the core scheduling cookie to")
	f.StringVarP(&scopeType, "type", "t", "", "type of the PID: pid, tgid or pgid (default tgid)")
	f.BoolVarP(&verbose, "verbose", "v", false, "trace each kernel operation on stderr")
	f.BoolVarP(&showVersion, "version", "V", false, "print version and exit")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &model.UsageError{Msg: err.Error()}
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "coresched %s\n", version)
		return nil
	}

	in, err := model.Resolve(model.RawArgs{
		Get:     getPIDs,
		New:     newPIDs,
		Copy:    copyCookie,
		Source:  sourcePIDs,
		Dest:    destPIDs,
		Type:    scopeType,
		Program: args,
	})
	if err != nil {
		return err
	}

	d := &dispatch.Dispatcher{
		Ops:      schedcore.Kernel{},
		Launcher: &launch.Launcher{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Verbose:  verbose,
	}
	return d.Run(in)
}

// Execute runs the root command and terminates the process with the
// exit status matching the outcome.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(err))
	}
}

// report prints the diagnostic for err and picks the exit status.
func report(err error) int {
	var noCookie *dispatch.NoCookieError
	if errors.As(err, &noCookie) {
		// The dispatcher already printed the message on stdout.
		return exitNoCookie
	}
	var status *launch.ExitError
	if errors.As(err, &status) {
		// Child failures print their own diagnostics; the parent
		// only relays the status.
		return status.Code
	}

	fmt.Fprintf(os.Stderr, "coresched: %v\n", err)
	var usage *model.UsageError
	if errors.As(err, &usage) {
		return exitUsage
	}
	var execFailed *launch.ExecError
	if errors.As(err, &execFailed) {
		return execFailed.Code
	}
	var op *schedcore.OpError
	if errors.As(err, &op) {
		return exitKernel
	}
	return 1
}
