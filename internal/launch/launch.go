// Package launch starts a program under a core-scheduling cookie.
//
// Go cannot fork without exec, so the child half is a re-exec of
// this binary: the parent spawns "coresched relay ... -- PROGRAM",
// the relay assigns the cookie to itself and then replaces its
// image with the target program. The parent only waits and relays
// the child's exit status, so the tool stays transparent to shell
// scripting around it.
package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/ppiankov/coresched/internal/model"
)

// ExitError carries the child's exit status to the CLI edge, which
// terminates with the same code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("child exited with status %d", e.Code)
}

// ExecError reports a failed image replacement in the relay child.
// Code follows shell convention: 127 for a program that could not
// be found, 126 otherwise.
type ExecError struct {
	Program string
	Code    int
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute %s: %v", e.Program, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Launcher spawns the relay child and blocks until it terminates.
type Launcher struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer
}

// Launch runs the intent's program under a cookie. It returns nil
// when the child exits zero, an *ExitError with the child's status
// otherwise. Cookie setup failures inside the child are fatal to
// the child only and surface here as its exit status.
func (l *Launcher) Launch(in *model.Intent) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate own executable: %w", err)
	}

	cmd := exec.Command(exe, relayArgs(in)...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	err = cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitCode(exitErr)}
	}
	return fmt.Errorf("failed to spawn %s: %w", in.Program[0], err)
}

// relayArgs builds the hidden relay invocation for an exec intent.
func relayArgs(in *model.Intent) []string {
	args := []string{"relay", "--type", in.Scope.String()}
	if in.Source != 0 {
		args = append(args, "--source", strconv.Itoa(int(in.Source)))
	}
	args = append(args, "--")
	return append(args, in.Program...)
}

// exitCode extracts the child's exit status, mapping death by
// signal to the shell's 128+signal convention.
func exitCode(err *exec.ExitError) int {
	if status, ok := err.Sys().(syscall.WaitStatus); ok {
		if status.Signaled() {
			return 128 + int(status.Signal())
		}
		return status.ExitStatus()
	}
	return 1
}
