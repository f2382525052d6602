//go:build !linux

package schedcore

import (
	"errors"

	"github.com/ppiankov/coresched/internal/model"
)

// ErrUnsupported is returned on platforms without core scheduling.
var ErrUnsupported = errors.New("core scheduling is only available on linux")

// Kernel issues the real prctl requests; unavailable here.
type Kernel struct{}

func (Kernel) Get(pid model.PID) (Cookie, error) {
	return 0, &OpError{Op: "get", PID: pid, Err: ErrUnsupported}
}

func (Kernel) Create(pid model.PID, scope model.Scope) error {
	return &OpError{Op: "create", PID: pid, Err: ErrUnsupported}
}

func (Kernel) Pull(pid model.PID) error {
	return &OpError{Op: "pull", PID: pid, Err: ErrUnsupported}
}

func (Kernel) Push(pid model.PID, scope model.Scope) error {
	return &OpError{Op: "push", PID: pid, Err: ErrUnsupported}
}
