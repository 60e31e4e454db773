package opusstream

import (
	"sync"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/gopus"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/hraban"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/libopus"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/purego"
)

// Candidates returns the codec backends in order of preference. The names
// and order are stable; the first one that loads is used.
func Candidates() []backend.Descriptor {
	return []backend.Descriptor{
		libopus.Descriptor,
		hraban.Descriptor,
		purego.Descriptor,
		gopus.Descriptor,
	}
}

var defaultRegistry = sync.OnceValue(func() *backend.Registry {
	return backend.NewRegistry(Candidates()...)
})

// DefaultRegistry returns the process-wide registry over Candidates.
func DefaultRegistry() *backend.Registry {
	return defaultRegistry()
}
