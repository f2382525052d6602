// Package schedcore wraps the kernel's core-scheduling cookie
// interface (prctl PR_SCHED_CORE). Cookies are opaque kernel-owned
// handles; this package only asks the kernel to create, read or
// transfer them and reports failures, it never retries.
package schedcore

import (
	"fmt"

	"github.com/ppiankov/coresched/internal/model"
)

// Cookie is an opaque kernel-owned core-scheduling tag. Zero means
// no cookie is assigned.
type Cookie uint64

// Ops is the set of privileged cookie primitives. The real
// implementation is Kernel; tests substitute a recording fake.
type Ops interface {
	// Get returns the cookie of pid, or zero if it has none.
	Get(pid model.PID) (Cookie, error)
	// Create asks the kernel to allocate a fresh cookie and assign
	// it to pid at the given scope.
	Create(pid model.PID, scope model.Scope) error
	// Pull makes the calling task adopt the cookie of pid.
	Pull(pid model.PID) error
	// Push propagates the calling task's cookie onto pid at the
	// given scope.
	Push(pid model.PID, scope model.Scope) error
}

// OpError reports a rejected kernel request, naming the operation
// and the target pid.
type OpError struct {
	Op  string // "get", "create", "pull" or "push"
	PID model.PID
	Err error
}

func (e *OpError) Error() string {
	switch e.Op {
	case "create":
		return fmt.Sprintf("failed to create cookie for PID %d: %v", e.PID, e.Err)
	case "push":
		return fmt.Sprintf("failed to push cookie to PID %d: %v", e.PID, e.Err)
	}
	return fmt.Sprintf("failed to %s cookie from PID %d: %v", e.Op, e.PID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
