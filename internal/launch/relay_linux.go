//go:build linux

package launch

import (
	"errors"
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

// Relay is the child half of the launch flow. It assigns a cookie
// to the calling process and replaces the process image with argv.
// On success it does not return. A source pid means "adopt that
// task's cookie"; otherwise a brand-new cookie is created so the
// program never silently inherits the parent's.
func Relay(ops schedcore.Ops, source model.PID, scope model.Scope, argv []string) error {
	// The pull is thread-scoped and execve keeps only the calling
	// thread, so the cookie must land on the thread that execs.
	runtime.LockOSThread()

	if source != 0 {
		if err := ops.Pull(source); err != nil {
			return err
		}
	} else {
		if err := ops.Create(model.PID(os.Getpid()), scope); err != nil {
			return err
		}
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		code := 126
		if errors.Is(err, exec.ErrNotFound) {
			code = 127
		}
		return &ExecError{Program: argv[0], Code: code, Err: err}
	}
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return &ExecError{Program: argv[0], Code: 126, Err: err}
	}
	return nil
}
