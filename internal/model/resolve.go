package model

import "fmt"

// UsageError reports malformed or contradictory arguments. It is
// always produced before any kernel call is made.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

func usageErrorf(format string, a ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, a...)}
}

// RawArgs is the unvalidated flag state collected by the CLI layer.
// PID-valued options are kept as strings, one entry per occurrence,
// so that duplicate and malformed values produce this package's
// diagnostics instead of flag-library defaults.
type RawArgs struct {
	Get    []string // -g/--get occurrences
	New    []string // -n/--new occurrences
	Copy   bool
	Source []string // -s/--source occurrences
	Dest   []string // -d/--dest occurrences
	Type   string   // -t/--type value, empty for default
	// Program holds the trailing tokens: the argv to execute.
	Program []string
}

// Resolve validates raw flag state and produces the single Intent for
// this invocation, or a *UsageError naming the violated rule.
// No kernel state is touched here.
func Resolve(raw RawArgs) (*Intent, error) {
	var cmd Command
	var source, dest PID

	// --get and --source both fill the source slot, --new and --dest
	// both fill the destination slot. Filling a slot twice is
	// ambiguous usage, never last-write-wins.
	setSource := func(s, flagName string) error {
		pid, err := ParsePID(s, flagName)
		if err != nil {
			return err
		}
		if source != 0 {
			return usageErrorf("ambiguous usage: multiple source PIDs defined")
		}
		source = pid
		return nil
	}
	setDest := func(s, flagName string) error {
		pid, err := ParsePID(s, flagName)
		if err != nil {
			return err
		}
		if dest != 0 {
			return usageErrorf("ambiguous usage: multiple destination PIDs defined")
		}
		dest = pid
		return nil
	}

	for _, s := range raw.Get {
		cmd |= CmdGet
		if err := setSource(s, "-g/--get"); err != nil {
			return nil, err
		}
	}
	for _, s := range raw.New {
		cmd |= CmdCreate
		if err := setDest(s, "-n/--new"); err != nil {
			return nil, err
		}
	}
	if raw.Copy {
		cmd |= CmdCopy
	}
	for _, s := range raw.Source {
		if err := setSource(s, "-s/--source"); err != nil {
			return nil, err
		}
	}
	for _, s := range raw.Dest {
		if err := setDest(s, "-d/--dest"); err != nil {
			return nil, err
		}
	}

	// More than one bit set means more than one function option.
	if cmd&(cmd-1) != 0 {
		return nil, usageErrorf("cannot do more than one function at a time, see --help")
	}

	scope := DefaultScope
	if raw.Type != "" {
		var err error
		if scope, err = ParseScope(raw.Type); err != nil {
			return nil, err
		}
	}

	if len(raw.Program) > 0 && cmd != CmdExec {
		// A function option and a program to run were both given.
		return nil, usageErrorf("bad usage: cannot both %s a cookie and spawn a program, see --help", cmd)
	}
	if cmd == CmdExec && len(raw.Program) == 0 && source != 0 {
		// A bare --source with nothing to run reads the source's cookie.
		cmd = CmdGet
	}

	in := &Intent{Cmd: cmd, Source: source, Dest: dest, Scope: scope, Program: raw.Program}
	if err := verify(in); err != nil {
		return nil, err
	}
	return in, nil
}

// verify enforces the per-command slot rules.
func verify(in *Intent) error {
	switch in.Cmd {
	case CmdGet:
		if in.Dest != 0 {
			return usageErrorf("cannot use -d/--dest with -g/--get, see --help")
		}
	case CmdCreate:
		if in.Source != 0 {
			return usageErrorf("cannot use -s/--source with -n/--new, see --help")
		}
	case CmdCopy:
		if in.Source == 0 {
			return usageErrorf("-s/--source PID is required when copying")
		}
		if in.Dest == 0 {
			return usageErrorf("-d/--dest PID is required when copying")
		}
	case CmdExec:
		if in.Dest != 0 {
			return usageErrorf("cannot use -d/--dest when spawning a program, see --help")
		}
		if len(in.Program) == 0 {
			return usageErrorf("program name is required, see --help")
		}
	}
	return nil
}
