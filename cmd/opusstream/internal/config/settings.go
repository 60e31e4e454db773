package config

import (
	"github.com/haivivi/opusstream/pkg/audio/codec/packetio"
	"github.com/haivivi/opusstream/pkg/audio/opusstream"
	"github.com/haivivi/opusstream/pkg/cli"
)

// Settings is everything encode and decode need to build a stream.
type Settings struct {
	Stream opusstream.Config `json:"stream" yaml:"stream"`

	Bitrate    int     `json:"bitrate,omitempty" yaml:"bitrate,omitempty"`
	FEC        bool    `json:"fec,omitempty" yaml:"fec,omitempty"`
	PacketLoss float64 `json:"packet_loss,omitempty" yaml:"packet_loss,omitempty"`

	Framing packetio.Format `json:"framing" yaml:"framing"`
	LibPath string          `json:"lib_path,omitempty" yaml:"lib_path,omitempty"`
}

// Defaults returns 20 ms mono frames at 48 kHz, AUDIO application,
// length-prefixed framing.
func Defaults() Settings {
	return Settings{
		Stream: opusstream.Config{
			FrameSize:   960,
			Channels:    1,
			SampleRate:  48000,
			Application: opusstream.ApplicationAudio,
		},
		Framing: packetio.LenPrefix,
	}
}

// ApplyProfile overrides s with the non-zero fields of p. A nil profile is
// ignored.
func (s *Settings) ApplyProfile(p *cli.Profile) error {
	if p == nil {
		return nil
	}
	return s.apply(fields{
		frameSize:   p.FrameSize,
		channels:    p.Channels,
		sampleRate:  p.SampleRate,
		application: p.Application,
		bitrate:     p.Bitrate,
		fec:         p.FEC,
		packetLoss:  p.PacketLoss,
		framing:     p.Framing,
		libPath:     p.LibPath,
	})
}

// ApplyEnv overrides s with the variables set in e.
func (s *Settings) ApplyEnv(e *Env) error {
	if e == nil {
		return nil
	}
	return s.apply(fields{
		frameSize:   e.FrameSize,
		channels:    e.Channels,
		sampleRate:  e.SampleRate,
		application: e.Application,
		bitrate:     e.Bitrate,
		fec:         e.FEC,
		packetLoss:  e.PacketLoss,
		framing:     e.Framing,
		libPath:     e.LibPath,
	})
}

type fields struct {
	frameSize, channels, sampleRate int
	application                     string
	bitrate                         int
	fec                             bool
	packetLoss                      float64
	framing                         string
	libPath                         string
}

func (s *Settings) apply(f fields) error {
	if f.frameSize != 0 {
		s.Stream.FrameSize = f.frameSize
	}
	if f.channels != 0 {
		s.Stream.Channels = f.channels
	}
	if f.sampleRate != 0 {
		s.Stream.SampleRate = f.sampleRate
	}
	if f.application != "" {
		if err := s.SetApplication(f.application); err != nil {
			return err
		}
	}
	if f.bitrate != 0 {
		s.Bitrate = f.bitrate
	}
	if f.fec {
		s.FEC = true
	}
	if f.packetLoss != 0 {
		s.PacketLoss = f.packetLoss
	}
	if f.framing != "" {
		if err := s.SetFraming(f.framing); err != nil {
			return err
		}
	}
	if f.libPath != "" {
		s.LibPath = f.libPath
	}
	return nil
}

// SetApplication parses an application name or number.
func (s *Settings) SetApplication(name string) error {
	app, err := opusstream.ParseApplication(name)
	if err != nil {
		return err
	}
	s.Stream.Application = app
	return nil
}

// SetFraming parses a packetio format name.
func (s *Settings) SetFraming(name string) error {
	f, err := packetio.ParseFormat(name)
	if err != nil {
		return err
	}
	s.Framing = f
	return nil
}
