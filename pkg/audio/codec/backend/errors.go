package backend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBackendUnavailable is matched by the error returned when no
	// candidate backend could be loaded.
	ErrBackendUnavailable = errors.New("backend: no opus backend available")

	// ErrNotCompiled is returned by descriptors whose backend was left out
	// of the build.
	ErrNotCompiled = errors.New("backend: not compiled in")

	// ErrUnsupportedCTL is wrapped by instances for control requests they
	// do not implement.
	ErrUnsupportedCTL = errors.New("backend: unsupported ctl")
)

// Attempt records why a candidate failed to load.
type Attempt struct {
	Name string
	Err  error
}

func (a Attempt) String() string {
	return fmt.Sprintf("Failed to load %s: %v", a.Name, a.Err)
}

// UnavailableError lists every candidate that was tried.
type UnavailableError struct {
	Attempts []Attempt
}

func (e *UnavailableError) Error() string {
	names := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		names[i] = a.Name
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v; install one of: %s", ErrBackendUnavailable, strings.Join(names, ", "))
	for _, a := range e.Attempts {
		b.WriteString("\n  ")
		b.WriteString(a.String())
	}
	return b.String()
}

// Is reports whether target is ErrBackendUnavailable.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}
