// Package purego loads the libopus shared library at runtime with
// github.com/ebitengine/purego, so no cgo toolchain is needed at build time.
//
// The library is searched in OPUS_LIB_PATH first and then under the usual
// system names. Only linux and darwin are supported.
package purego

import "github.com/haivivi/opusstream/pkg/audio/codec/backend"

// Name is the registry name of this backend.
const Name = "purego"

// EnvLibPath overrides the shared library location.
const EnvLibPath = "OPUS_LIB_PATH"

// Descriptor is the registry entry for the dlopen libopus backend.
var Descriptor = backend.Descriptor{
	Name: Name,
	Traits: backend.Traits{
		FrameSize: true,
		Control:   backend.ControlEncoder,
		Release:   true,
	},
	Load: load,
}
