// Package opus holds the Opus packet helpers and, when built with the opus
// build tag, a cgo binding to libopus.
//
// The packet helpers parse the TOC byte described in RFC 6716 section 3.1
// and are always available. They are used to compute Ogg granule positions
// without decoding audio.
//
// The libopus binding needs pkg-config and the opus development headers:
//
//	go build -tags opus ./...
package opus
