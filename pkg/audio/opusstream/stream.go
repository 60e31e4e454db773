package opusstream

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

// Encoder control requests, libopus numbering.
const (
	CTLSetBitrate           = 0xfa2
	CTLSetInbandFEC         = 0xfac
	CTLSetPacketLossPercent = 0xfae
)

// Bitrate limits applied by SetBitrate.
const (
	MinBitrate = 16000
	MaxBitrate = 128000
)

// stream is the state shared by Encoder and Decoder: one backend instance
// bound to a Config, the controls, and the cleanup path.
type stream struct {
	mu sync.Mutex

	id     string
	cfg    Config
	active *backend.Active
	inst   backend.Instance
	ctl    backend.ControlFunc
	log    *slog.Logger
}

func newStream(cfg Config, o *options) (*stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := o.registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	active, err := reg.Load(false)
	if err != nil {
		return nil, err
	}

	app, err := resolveApplication(active, cfg.Application)
	if err != nil {
		return nil, err
	}
	inst, err := active.Capability.NewInstance(cfg.SampleRate, cfg.Channels, app)
	if err != nil {
		return nil, fmt.Errorf("opusstream: %s: create instance: %w", active.Name(), err)
	}

	log := o.logger
	if log == nil {
		log = slog.Default()
	}
	s := &stream{
		id:     uuid.NewString(),
		cfg:    cfg,
		active: active,
		inst:   inst,
		ctl:    backend.ResolveControl(inst, active.Descriptor.Traits.Control),
	}
	s.log = log.With("stream", s.id, "backend", active.Name())
	s.log.Debug("opusstream: stream opened",
		"rate", cfg.SampleRate, "channels", cfg.Channels, "frame_size", cfg.FrameSize)
	return s, nil
}

func resolveApplication(a *backend.Active, app int) (int, error) {
	if !a.Descriptor.Traits.NamedApplications {
		return app, nil
	}
	name, ok := backend.ApplicationName(app)
	if !ok {
		return 0, fmt.Errorf("%w: unknown application %d", ErrInvalidConfig, app)
	}
	table, ok := a.Capability.(backend.ApplicationTable)
	if !ok {
		return 0, fmt.Errorf("%w: backend %s has no application table", ErrInvalidConfig, a.Name())
	}
	v, ok := table.Applications()[name]
	if !ok {
		return 0, fmt.Errorf("%w: backend %s does not support %s", ErrInvalidConfig, a.Name(), name)
	}
	return v, nil
}

// ID returns the stream id used in log records.
func (s *stream) ID() string { return s.id }

// Backend returns the name of the codec backend serving this stream.
func (s *stream) Backend() string { return s.active.Name() }

// Config returns the stream parameters.
func (s *stream) Config() Config { return s.cfg }

// frameSizeArg is the frame size passed to the backend: explicit for
// backends that need it, 0 otherwise.
func (s *stream) frameSizeArg() int {
	if s.active.Descriptor.Traits.FrameSize {
		return s.cfg.FrameSize
	}
	return 0
}

// SetBitrate sets the encoder bitrate, clamped to [MinBitrate, MaxBitrate].
func (s *stream) SetBitrate(bps int) error {
	return s.control(CTLSetBitrate, clampBitrate(bps))
}

// SetFEC enables or disables in-band forward error correction.
func (s *stream) SetFEC(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return s.control(CTLSetInbandFEC, v)
}

// SetPacketLossPercentage tells the encoder the expected loss as a fraction
// in [0, 1]. Values outside the range are clamped.
func (s *stream) SetPacketLossPercentage(fraction float64) error {
	return s.control(CTLSetPacketLossPercent, lossPercent(fraction))
}

func (s *stream) control(code, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inst == nil {
		return ErrClosed
	}
	if s.ctl == nil {
		return fmt.Errorf("%w: backend %s has no encoder control", ErrUnsupported, s.active.Name())
	}
	if err := s.ctl(code, value); err != nil {
		if errors.Is(err, backend.ErrUnsupportedCTL) {
			return fmt.Errorf("%w: ctl %#x on backend %s: %w", ErrUnsupported, code, s.active.Name(), err)
		}
		return fmt.Errorf("opusstream: ctl %#x=%d: %w", code, value, err)
	}
	return nil
}

func clampBitrate(bps int) int {
	return min(max(bps, MinBitrate), MaxBitrate)
}

func lossPercent(fraction float64) int {
	return int(min(max(fraction, 0), 1) * 100)
}

// cleanupLocked releases the backend instance once. Release errors are
// logged and dropped. s.mu must be held.
func (s *stream) cleanupLocked(reason string) {
	if s.inst == nil {
		return
	}
	if s.active.Descriptor.Traits.Release {
		if r, ok := s.inst.(backend.Releaser); ok {
			if err := r.Release(); err != nil {
				s.log.Warn("opusstream: release failed", "error", err)
			}
		}
	}
	s.inst = nil
	s.ctl = nil
	s.log.Debug("opusstream: stream closed", "reason", reason)
}
