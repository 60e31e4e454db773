package opusstream

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

// Application profiles, libopus numbering.
const (
	ApplicationVoIP               = backend.ApplicationVoIP
	ApplicationAudio              = backend.ApplicationAudio
	ApplicationRestrictedLowdelay = backend.ApplicationRestrictedLowdelay
)

// ParseApplication accepts an application table name (VOIP, AUDIO,
// RESTRICTED_LOWDELAY, any case) or its libopus number.
func ParseApplication(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case backend.AppVoIP:
		return ApplicationVoIP, nil
	case backend.AppAudio:
		return ApplicationAudio, nil
	case backend.AppRestrictedLowdelay, "LOWDELAY":
		return ApplicationRestrictedLowdelay, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: unknown application %q", ErrInvalidConfig, s)
	}
	if _, ok := backend.ApplicationName(n); !ok {
		return 0, fmt.Errorf("%w: unknown application %d", ErrInvalidConfig, n)
	}
	return n, nil
}

// Config holds the fixed parameters of a stream.
type Config struct {
	// FrameSize is samples per channel in one frame.
	FrameSize   int `yaml:"frame_size" json:"frame_size"`
	Channels    int `yaml:"channels" json:"channels"`
	SampleRate  int `yaml:"sample_rate" json:"sample_rate"`
	Application int `yaml:"application" json:"application"`
}

// Validate checks that every size is positive.
func (c Config) Validate() error {
	switch {
	case c.FrameSize <= 0:
		return fmt.Errorf("%w: frame size %d", ErrInvalidConfig, c.FrameSize)
	case c.Channels <= 0:
		return fmt.Errorf("%w: channels %d", ErrInvalidConfig, c.Channels)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}

// FrameBytes is the PCM size of one frame.
func (c Config) FrameBytes() int {
	return c.FrameSize * c.Channels * 2
}

// FrameDuration is the playback time of one frame.
func (c Config) FrameDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate)
}

// Option configures a stream.
type Option func(*options)

type options struct {
	registry *backend.Registry
	logger   *slog.Logger
	onFormat func(Format)
	onTags   func([]byte)
}

// WithRegistry selects the backend from reg instead of DefaultRegistry.
func WithRegistry(reg *backend.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithLogger sets the logger used for stream lifecycle messages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// OnFormat registers the callback for OpusHead packets. Decoder only.
func OnFormat(fn func(Format)) Option {
	return func(o *options) { o.onFormat = fn }
}

// OnTags registers the callback for OpusTags packets. The callback receives
// the packet unchanged. Decoder only.
func OnTags(fn func([]byte)) Option {
	return func(o *options) { o.onTags = fn }
}
