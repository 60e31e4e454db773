//go:build !opus

package libopus

import (
	"fmt"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

func load() (backend.Capability, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags opus", backend.ErrNotCompiled)
}
