// Package audio is the root of the audio packages.
//
//   - pcm: 16-bit PCM formats, sources and WAV output
//   - resampler: sample rate and channel conversion of PCM streams
//   - opusstream: streaming PCM to Opus encoder and Opus to PCM decoder
//   - codec/backend: registry of Opus codec backends
//   - codec/opus: Opus packet inspection
//   - codec/ogg: Ogg Opus headers and page framing
//   - codec/packetio: packet framing for files and pipes
//
// Example usage:
//
//	import (
//	    "github.com/haivivi/opusstream/pkg/audio/opusstream"
//	    "github.com/haivivi/opusstream/pkg/audio/pcm"
//	)
//
//	src, err := pcm.OpenFile("speech.wav", pcm.L16Mono48K)
//	enc, err := opusstream.NewEncoder(opusstream.Config{
//	    FrameSize:   960,
//	    Channels:    1,
//	    SampleRate:  48000,
//	    Application: opusstream.ApplicationAudio,
//	}, sink)
//	_, err = enc.ReadFrom(src)
package audio
