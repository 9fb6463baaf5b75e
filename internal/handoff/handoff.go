package handoff

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// ExecError reports a failed process-image replacement.
type ExecError struct {
	Program string
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %s: %v", e.Program, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// SubstituteArgs returns a new argument list in which every occurrence of
// placeholder, in every argument, is replaced with path. Arguments without
// the placeholder pass through unchanged; the input slice is not modified.
func SubstituteArgs(args []string, placeholder, path string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, placeholder, path)
	}
	return out
}

// Exec replaces the current process image with program running with args
// and the current environment. On success it does not return.
func Exec(program string, args []string) error {
	argv := append([]string{program}, args...)
	if err := unix.Exec(program, argv, os.Environ()); err != nil {
		return &ExecError{Program: program, Err: err}
	}
	return nil
}
