// Package hraban adapts gopkg.in/hraban/opus.v2 to the backend contract.
// The binding needs cgo and is only compiled with the opus build tag.
package hraban

import "github.com/haivivi/opusstream/pkg/audio/codec/backend"

// Name is the registry name of this backend.
const Name = "hraban"

// Descriptor is the registry entry for the hraban/opus backend.
var Descriptor = backend.Descriptor{
	Name: Name,
	Traits: backend.Traits{
		Control: backend.ControlEncoder,
	},
	Load: load,
}
