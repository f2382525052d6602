package model

import (
	"fmt"
	"strconv"
)

// PID identifies a task, thread group, or process group.
// Zero means "unset" in resolved intents, and "the calling task"
// when handed to the kernel.
type PID int32

// ParsePID parses a PID flag value. The kernel treats pids as
// non-negative; a negative value is always a usage error. flagName
// appears in the diagnostic so the user knows which option was bad.
func ParsePID(s, flagName string) (PID, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, usageErrorf("failed to parse PID for %s: %q", flagName, s)
	}
	return PID(n), nil
}

// Scope is the breadth over which a cookie operation applies.
// The values equal the kernel's PR_SCHED_CORE_SCOPE_* constants.
type Scope int

const (
	ScopeThread       Scope = 0 // a single task ("pid")
	ScopeThreadGroup  Scope = 1 // all threads of a process ("tgid")
	ScopeProcessGroup Scope = 2 // all processes in a group ("pgid")
)

// DefaultScope is used when no --type option is given.
const DefaultScope = ScopeThreadGroup

// ParseScope maps a --type value to a Scope. Valid values are
// exactly pid, tgid and pgid.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "pid":
		return ScopeThread, nil
	case "tgid":
		return ScopeThreadGroup, nil
	case "pgid":
		return ScopeProcessGroup, nil
	}
	return 0, usageErrorf("%q is an invalid option. Must be one of pid/tgid/pgid", s)
}

func (s Scope) String() string {
	switch s {
	case ScopeThread:
		return "pid"
	case ScopeThreadGroup:
		return "tgid"
	case ScopeProcessGroup:
		return "pgid"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Command is the function selected for one invocation. The values
// are bits so that selecting more than one function is detectable
// after accumulation.
type Command int

const (
	CmdExec   Command = 0 // no function flag: run a program under a cookie
	CmdGet    Command = 1
	CmdCreate Command = 2
	CmdCopy   Command = 4
)

func (c Command) String() string {
	switch c {
	case CmdExec:
		return "exec"
	case CmdGet:
		return "get"
	case CmdCreate:
		return "new"
	case CmdCopy:
		return "copy"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Intent is the validated result of argument resolution: exactly one
// command, with only the identifier slots that command uses filled.
// It is built once per invocation and never mutated afterwards.
type Intent struct {
	Cmd Command

	// Source is the subject of Get, the source of Copy, and the
	// optional cookie donor for Exec.
	Source PID

	// Dest is the subject of Create and the destination of Copy.
	Dest PID

	Scope Scope

	// Program is the argv to run under the cookie; only set for CmdExec.
	Program []string
}
