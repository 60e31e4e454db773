package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Active is the backend selected by a Registry.
type Active struct {
	Capability Capability
	Descriptor Descriptor
}

// Name returns the name of the selected backend.
func (a *Active) Name() string {
	return a.Descriptor.Name
}

// Registry tries candidate backends in order and caches the first one that
// loads. It is safe for concurrent use; concurrent first loads wait for a
// single scan and observe the same selection.
type Registry struct {
	candidates []Descriptor

	mu       sync.Mutex
	active   *Active
	attempts []Attempt
}

// NewRegistry creates a registry over candidates. The order of candidates is
// the order of preference.
func NewRegistry(candidates ...Descriptor) *Registry {
	return &Registry{candidates: slices.Clone(candidates)}
}

// Candidates returns the candidate list in preference order.
func (r *Registry) Candidates() []Descriptor {
	return slices.Clone(r.candidates)
}

// Load returns the active backend, scanning the candidates if none has been
// selected yet or if refresh is set. When every candidate fails the returned
// error is an *UnavailableError.
func (r *Registry) Load(refresh bool) (*Active, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil && !refresh {
		return r.active, nil
	}

	r.active = nil
	r.attempts = nil
	for _, d := range r.candidates {
		c, err := load(d)
		if err != nil {
			slog.Debug("backend: candidate failed", "name", d.Name, "error", err)
			r.attempts = append(r.attempts, Attempt{Name: d.Name, Err: err})
			continue
		}
		r.active = &Active{Capability: c, Descriptor: d}
		slog.Debug("backend: selected", "name", d.Name, "skipped", len(r.attempts))
		return r.active, nil
	}
	return nil, &UnavailableError{Attempts: slices.Clone(r.attempts)}
}

// Active returns the cached selection without loading, or nil.
func (r *Registry) Active() *Active {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Attempts returns the failures recorded by the most recent scan.
func (r *Registry) Attempts() []Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.attempts)
}

func load(d Descriptor) (c Capability, err error) {
	if d.Load == nil {
		return nil, errors.New("no loader")
	}
	defer func() {
		if p := recover(); p != nil {
			c, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	c, err = d.Load()
	if err == nil && c == nil {
		err = errors.New("loader returned no capability")
	}
	return c, err
}
