//go:build !linux

package launch

import (
	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

// Relay requires linux; elsewhere the cookie assignment itself
// already fails.
func Relay(ops schedcore.Ops, source model.PID, scope model.Scope, argv []string) error {
	if source != 0 {
		return ops.Pull(source)
	}
	return ops.Create(0, scope)
}
