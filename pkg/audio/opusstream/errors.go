package opusstream

import (
	"errors"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

var (
	// ErrBackendUnavailable is matched when no codec backend can be loaded.
	ErrBackendUnavailable = backend.ErrBackendUnavailable

	// ErrInvalidConfig is returned for non-positive stream parameters or an
	// application profile the backend cannot express.
	ErrInvalidConfig = errors.New("opusstream: invalid config")

	// ErrUnsupported is returned by control operations when the backend
	// instance has no control method or rejects the request as unsupported.
	// The stream stays usable.
	ErrUnsupported = errors.New("opusstream: unsupported operation")

	// ErrDecode is matched by every *DecodeError.
	ErrDecode = errors.New("opusstream: decode failed")

	// ErrClosed is returned by any operation after Close or Destroy.
	ErrClosed = errors.New("opusstream: stream is closed")
)

// DecodeError reports that one audio packet could not be decoded. The
// decoder remains usable for the following packets.
type DecodeError struct {
	Size int
	Err  error
}

func (e *DecodeError) Error() string {
	return ErrDecode.Error() + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
