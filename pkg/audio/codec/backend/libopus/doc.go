// Package libopus adapts the cgo libopus binding in pkg/audio/codec/opus
// to the backend contract. Without the opus build tag the descriptor reports
// that the backend was not compiled in.
package libopus

import "github.com/haivivi/opusstream/pkg/audio/codec/backend"

// Name is the registry name of this backend.
const Name = "libopus"

// Descriptor is the registry entry for the cgo libopus backend.
var Descriptor = backend.Descriptor{
	Name: Name,
	Traits: backend.Traits{
		Control: backend.ControlApply,
		Release: true,
	},
	Load: load,
}
