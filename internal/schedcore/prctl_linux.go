//go:build linux

package schedcore

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ppiankov/coresched/internal/model"
)

// Kernel issues the real prctl requests.
type Kernel struct{}

func (Kernel) Get(pid model.PID) (Cookie, error) {
	var cookie uint64
	// The cookie value comes back through arg5; reads are always
	// thread-scoped.
	err := unix.Prctl(unix.PR_SCHED_CORE, unix.PR_SCHED_CORE_GET, uintptr(pid),
		unix.PR_SCHED_CORE_SCOPE_THREAD, uintptr(unsafe.Pointer(&cookie)))
	if err != nil {
		return 0, &OpError{Op: "get", PID: pid, Err: err}
	}
	return Cookie(cookie), nil
}

func (Kernel) Create(pid model.PID, scope model.Scope) error {
	err := unix.Prctl(unix.PR_SCHED_CORE, unix.PR_SCHED_CORE_CREATE, uintptr(pid),
		uintptr(scope), 0)
	if err != nil {
		return &OpError{Op: "create", PID: pid, Err: err}
	}
	return nil
}

func (Kernel) Pull(pid model.PID) error {
	err := unix.Prctl(unix.PR_SCHED_CORE, unix.PR_SCHED_CORE_SHARE_FROM, uintptr(pid),
		unix.PR_SCHED_CORE_SCOPE_THREAD, 0)
	if err != nil {
		return &OpError{Op: "pull", PID: pid, Err: err}
	}
	return nil
}

func (Kernel) Push(pid model.PID, scope model.Scope) error {
	err := unix.Prctl(unix.PR_SCHED_CORE, unix.PR_SCHED_CORE_SHARE_TO, uintptr(pid),
		uintptr(scope), 0)
	if err != nil {
		return &OpError{Op: "push", PID: pid, Err: err}
	}
	return nil
}
