// Package opusstream converts between interleaved s16le PCM and Opus
// packets.
//
// An [Encoder] buffers PCM written to it and emits one packet per complete
// frame to a [PacketWriter]. A [Decoder] takes one chunk at a time: the
// OpusHead and OpusTags metadata packets are reported through callbacks,
// every other chunk is decoded and the PCM written to an io.Writer.
//
// The codec itself is provided by whichever backend in [Candidates] loads
// first, see package backend. Each stream owns its own backend instance;
// the backend selection is shared through [DefaultRegistry] unless another
// registry is passed with [WithRegistry].
//
// Example:
//
//	cfg := opusstream.Config{FrameSize: 960, Channels: 2, SampleRate: 48000, Application: 2049}
//	dec, _ := opusstream.NewDecoder(cfg, speaker)
//	enc, _ := opusstream.NewEncoder(cfg, dec)
//	io.Copy(enc, mic)
//	enc.Close()
//	dec.Close()
package opusstream
