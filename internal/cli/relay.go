package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/coresched/internal/launch"
	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

var (
	relaySource string
	relayType   string
)

// relayCmd is the child half of the launch flow: it assigns a cookie
// to itself and then replaces its image with the target program.
// Only the parent coresched process invokes it, hence hidden.
var relayCmd = &cobra.Command{
	Use:           "relay [--source PID] [--type TYPE] -- PROGRAM [ARGS...]",
	Hidden:        true,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRelay,
}

func init() {
	rootCmd.AddCommand(relayCmd)
	f := relayCmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&relaySource, "source", "", "pid to pull the cookie from")
	f.StringVar(&relayType, "type", "tgid", "scope of the newly created cookie")
}

func runRelay(cmd *cobra.Command, args []string) error {
	var source model.PID
	if relaySource != "" {
		var err error
		if source, err = model.ParsePID(relaySource, "--source"); err != nil {
			return err
		}
	}
	scope, err := model.ParseScope(relayType)
	if err != nil {
		return err
	}
	// Does not return when the exec succeeds.
	return launch.Relay(schedcore.Kernel{}, source, scope, args)
}
