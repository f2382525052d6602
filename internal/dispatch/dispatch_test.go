package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/coresched/internal/model"
	"github.com/ppiankov/coresched/internal/schedcore"
)

// fakeOps records the primitives issued, in order, and can be told
// to fail a given operation.
type fakeOps struct {
	calls   []string
	cookies map[model.PID]schedcore.Cookie
	failOp  string
}

func (f *fakeOps) fail(op string, pid model.PID) error {
	if f.failOp == op {
		return &schedcore.OpError{Op: op, PID: pid, Err: errors.New("operation not permitted")}
	}
	return nil
}

func (f *fakeOps) Get(pid model.PID) (schedcore.Cookie, error) {
	f.calls = append(f.calls, fmt.Sprintf("get %d", pid))
	if err := f.fail("get", pid); err != nil {
		return 0, err
	}
	return f.cookies[pid], nil
}

func (f *fakeOps) Create(pid model.PID, scope model.Scope) error {
	f.calls = append(f.calls, fmt.Sprintf("create %d %s", pid, scope))
	return f.fail("create", pid)
}

func (f *fakeOps) Pull(pid model.PID) error {
	f.calls = append(f.calls, fmt.Sprintf("pull %d", pid))
	return f.fail("pull", pid)
}

func (f *fakeOps) Push(pid model.PID, scope model.Scope) error {
	f.calls = append(f.calls, fmt.Sprintf("push %d %s", pid, scope))
	return f.fail("push", pid)
}

type fakeLauncher struct {
	launched *model.Intent
	err      error
}

func (f *fakeLauncher) Launch(in *model.Intent) error {
	f.launched = in
	return f.err
}

func newTestDispatcher(ops *fakeOps, l *fakeLauncher) (*Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Dispatcher{Ops: ops, Launcher: l, Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func requireCalls(t *testing.T, ops *fakeOps, want ...string) {
	t.Helper()
	if len(ops.calls) != len(want) {
		t.Fatalf("issued %v, want %v", ops.calls, want)
	}
	for i := range want {
		if ops.calls[i] != want[i] {
			t.Fatalf("issued %v, want %v", ops.calls, want)
		}
	}
}

func TestCreateIssuesSingleOp(t *testing.T) {
	ops := &fakeOps{}
	d, _, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdCreate, Dest: 1234, Scope: model.ScopeProcessGroup})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireCalls(t, ops, "create 1234 pgid")
}

func TestCopyPullsThenPushes(t *testing.T) {
	ops := &fakeOps{}
	d, _, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdCopy, Source: 10, Dest: 20, Scope: model.DefaultScope})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireCalls(t, ops, "pull 10", "push 20 tgid")
}

func TestCopyPullFailureStopsPush(t *testing.T) {
	ops := &fakeOps{failOp: "pull"}
	d, _, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdCopy, Source: 10, Dest: 20, Scope: model.DefaultScope})
	var op *schedcore.OpError
	if !errors.As(err, &op) || op.Op != "pull" {
		t.Fatalf("expected pull OpError, got %v", err)
	}
	requireCalls(t, ops, "pull 10")
}

func TestGetPrintsCookieInHex(t *testing.T) {
	ops := &fakeOps{cookies: map[model.PID]schedcore.Cookie{999: 0xabc}}
	d, stdout, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdGet, Source: 999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "core scheduling cookie of pid 999 is 0xabc\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestGetWithoutCookie(t *testing.T) {
	ops := &fakeOps{}
	d, stdout, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdGet, Source: 999})
	var noCookie *NoCookieError
	if !errors.As(err, &noCookie) || noCookie.PID != 999 {
		t.Fatalf("expected NoCookieError for pid 999, got %v", err)
	}
	if !strings.Contains(stdout.String(), "pid 999 doesn't have a core scheduling cookie") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestGetKernelFailure(t *testing.T) {
	ops := &fakeOps{failOp: "get"}
	d, _, _ := newTestDispatcher(ops, nil)
	err := d.Run(&model.Intent{Cmd: model.CmdGet, Source: 999})
	var op *schedcore.OpError
	if !errors.As(err, &op) {
		t.Fatalf("expected OpError, got %v", err)
	}
}

func TestExecDelegatesToLauncher(t *testing.T) {
	l := &fakeLauncher{}
	d, _, _ := newTestDispatcher(&fakeOps{}, l)
	in := &model.Intent{Cmd: model.CmdExec, Scope: model.DefaultScope, Program: []string{"/bin/true"}}
	if err := d.Run(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.launched != in {
		t.Fatal("launcher did not receive the intent")
	}
}

func TestExecLauncherErrorPassesThrough(t *testing.T) {
	want := errors.New("spawn failed")
	l := &fakeLauncher{err: want}
	d, _, _ := newTestDispatcher(&fakeOps{}, l)
	in := &model.Intent{Cmd: model.CmdExec, Program: []string{"/bin/true"}}
	if err := d.Run(in); !errors.Is(err, want) {
		t.Fatalf("expected launcher error, got %v", err)
	}
}

func TestVerboseTracesOperations(t *testing.T) {
	ops := &fakeOps{}
	d, _, stderr := newTestDispatcher(ops, nil)
	d.Verbose = true
	if err := d.Run(&model.Intent{Cmd: model.CmdCopy, Source: 10, Dest: 20, Scope: model.DefaultScope}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stderr.String()
	if !strings.Contains(out, "pulling cookie from pid 10") ||
		!strings.Contains(out, "pushing cookie to pid 20") {
		t.Errorf("verbose trace missing operations: %q", out)
	}
}

func TestQuietByDefault(t *testing.T) {
	ops := &fakeOps{}
	d, _, stderr := newTestDispatcher(ops, nil)
	if err := d.Run(&model.Intent{Cmd: model.CmdCreate, Dest: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr.Len() != 0 {
		t.Errorf("expected no stderr output, got %q", stderr.String())
	}
}
