// Package backend selects an Opus codec implementation at runtime.
//
// Several codec implementations can be linked into a binary, each behind
// its own adapter package. A [Registry] holds them as an ordered list of
// [Descriptor] values; the first descriptor whose Load succeeds becomes the
// active backend and is cached until the registry is refreshed.
//
// Backends differ in small ways: some need the frame size passed explicitly,
// one takes the application profile by name, they expose encoder controls
// under different method names, and some hold native memory that must be
// released by hand. These differences are declared once per descriptor in
// [Traits] instead of being probed on every call.
//
// Example usage:
//
//	reg := backend.NewRegistry(libopus.Descriptor, gopus.Descriptor)
//	active, err := reg.Load(false)
//	if err != nil {
//	    // err lists every candidate and why it failed
//	}
//	inst, err := active.Capability.NewInstance(48000, 2, 2049)
package backend
