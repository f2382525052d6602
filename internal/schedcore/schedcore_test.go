package schedcore

import (
	"errors"
	"testing"
)

func TestOpErrorMessages(t *testing.T) {
	cause := errors.New("operation not permitted")
	tests := []struct {
		err  *OpError
		want string
	}{
		{&OpError{Op: "get", PID: 999, Err: cause}, "failed to get cookie from PID 999: operation not permitted"},
		{&OpError{Op: "pull", PID: 10, Err: cause}, "failed to pull cookie from PID 10: operation not permitted"},
		{&OpError{Op: "create", PID: 1234, Err: cause}, "failed to create cookie for PID 1234: operation not permitted"},
		{&OpError{Op: "push", PID: 20, Err: cause}, "failed to push cookie to PID 20: operation not permitted"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestOpErrorUnwrap(t *testing.T) {
	cause := errors.New("invalid argument")
	err := &OpError{Op: "create", PID: 1, Err: cause}
	if !errors.Is(err, cause) {
		t.Error("OpError does not unwrap to its cause")
	}
}
