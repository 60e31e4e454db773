//go:build !darwin && !linux

package purego

import (
	"fmt"
	"runtime"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

func load() (backend.Capability, error) {
	return nil, fmt.Errorf("%w: purego backend unsupported on %s", backend.ErrNotCompiled, runtime.GOOS)
}
