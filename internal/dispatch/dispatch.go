// Package dispatch maps a resolved intent onto cookie primitives.
package dispatch

import (
	"fmt"
	"io"

	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

// NoCookieError marks the valid "subject has no cookie" outcome of
// Get. The CLI turns it into exit status 1 for scripting.
type NoCookieError struct {
	PID model.PID
}

func (e *NoCookieError) Error() string {
	return fmt.Sprintf("pid %d doesn't have a core scheduling cookie", e.PID)
}

// Launcher runs an exec intent; satisfied by launch.Launcher.
type Launcher interface {
	Launch(in *model.Intent) error
}

// Dispatcher executes exactly one intent per invocation. There are
// no intermediate states: every command either completes or fails
// terminally, with no retry.
type Dispatcher struct {
	Ops      schedcore.Ops
	Launcher Launcher
	Stdout   io.Writer
	Stderr   io.Writer
	Verbose  bool
}

func (d *Dispatcher) Run(in *model.Intent) error {
	switch in.Cmd {
	case model.CmdGet:
		return d.get(in)
	case model.CmdCreate:
		d.tracef("creating new cookie for pid %d (scope %s)", in.Dest, in.Scope)
		return d.Ops.Create(in.Dest, in.Scope)
	case model.CmdCopy:
		return d.copy(in)
	case model.CmdExec:
		return d.exec(in)
	}
	return fmt.Errorf("unknown command %s", in.Cmd)
}

func (d *Dispatcher) get(in *model.Intent) error {
	d.tracef("reading cookie of pid %d", in.Source)
	cookie, err := d.Ops.Get(in.Source)
	if err != nil {
		return err
	}
	if cookie == 0 {
		fmt.Fprintf(d.Stdout, "pid %d doesn't have a core scheduling cookie\n", in.Source)
		return &NoCookieError{PID: in.Source}
	}
	fmt.Fprintf(d.Stdout, "core scheduling cookie of pid %d is 0x%x\n", in.Source, uint64(cookie))
	return nil
}

// copy transfers a cookie by having the invoking process pull it
// from the source and push it to the destination. The invoker's own
// cookie is permanently replaced as a side effect; a known quirk,
// kept for compatibility with existing callers.
func (d *Dispatcher) copy(in *model.Intent) error {
	d.tracef("pulling cookie from pid %d", in.Source)
	if err := d.Ops.Pull(in.Source); err != nil {
		return err
	}
	d.tracef("pushing cookie to pid %d (scope %s)", in.Dest, in.Scope)
	return d.Ops.Push(in.Dest, in.Scope)
}

func (d *Dispatcher) exec(in *model.Intent) error {
	if in.Source != 0 {
		d.tracef("spawning %s with the cookie of pid %d", in.Program[0], in.Source)
	} else {
		d.tracef("spawning %s with a new cookie (scope %s)", in.Program[0], in.Scope)
	}
	return d.Launcher.Launch(in)
}

func (d *Dispatcher) tracef(format string, a ...any) {
	if d.Verbose {
		fmt.Fprintf(d.Stderr, "coresched: %s\n", fmt.Sprintf(format, a...))
	}
}
