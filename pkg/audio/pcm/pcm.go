package pcm

import (
	"errors"
	"fmt"
	"time"
)

// Common formats.
var (
	L16Mono16K   = Format{SampleRate: 16000, Channels: 1}
	L16Mono24K   = Format{SampleRate: 24000, Channels: 1}
	L16Mono48K   = Format{SampleRate: 48000, Channels: 1}
	L16Stereo48K = Format{SampleRate: 48000, Channels: 2}
)

// Format is an s16le interleaved PCM layout.
type Format struct {
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`
	Channels   int `yaml:"channels" json:"channels"`
}

var errInvalidFormat = errors.New("pcm: invalid format")

// Validate reports an error for a non-positive rate or channel count.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("%w: %s", errInvalidFormat, f)
	}
	return nil
}

// Depth returns the bit depth, always 16.
func (f Format) Depth() int { return 16 }

// FrameBytes returns the size of one sample across all channels.
func (f Format) FrameBytes() int { return f.Channels * 2 }

// Samples returns the number of samples per channel in the given number of
// bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes / int64(f.FrameBytes())
}

// SamplesInDuration returns the number of samples per channel in d.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate) * d / time.Second)
}

// BytesInDuration returns the number of bytes in d.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.SamplesInDuration(d) * int64(f.FrameBytes())
}

// Duration returns the playback time of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Samples(bytes)) * time.Second / time.Duration(f.SampleRate)
}

// BytesRate returns bytes per second.
func (f Format) BytesRate() int {
	return f.SampleRate * f.FrameBytes()
}

// String returns the media type form, e.g. "audio/L16; rate=48000; channels=2".
func (f Format) String() string {
	return fmt.Sprintf("audio/L16; rate=%d; channels=%d", f.SampleRate, f.Channels)
}
