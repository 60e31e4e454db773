// Package ogg reads and writes Ogg Opus streams (RFC 7845).
//
// OpusWriter frames each packet into its own page and tracks the granule
// position from the packet TOC. OpusReader returns every packet of the
// stream in order, including the OpusHead and OpusTags headers, so callers
// can hand the sequence straight to a decoder that understands them.
package ogg
