// Package gopus adapts the pure Go codec github.com/thesyncim/gopus to the
// backend contract. It is always compiled in and is the last resort when no
// native libopus is present.
//
// gopus numbers its application profiles differently from libopus, so the
// capability publishes a name table and streams resolve profiles by name.
package gopus

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/thesyncim/gopus"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

// Name is the registry name of this backend.
const Name = "gopus"

// Descriptor is the registry entry for the pure Go backend.
var Descriptor = backend.Descriptor{
	Name: Name,
	Traits: backend.Traits{
		NamedApplications: true,
		Control:           backend.ControlApply,
	},
	Load: func() (backend.Capability, error) { return Capability{}, nil },
}

// Control requests understood by ApplyEncoderCTL, libopus numbering.
const (
	ctlSetBitrate        = 0xfa2
	ctlSetInbandFEC      = 0xfac
	ctlSetPacketLossPerc = 0xfae
)

// maxFrameSamples is 120 ms at 48 kHz, the longest Opus packet.
const maxFrameSamples = 5760

// Capability creates gopus encoder/decoder pairs.
type Capability struct{}

// Applications maps profile names to gopus application values.
func (Capability) Applications() map[string]int {
	return map[string]int{
		backend.AppVoIP:               int(gopus.ApplicationVoIP),
		backend.AppAudio:              int(gopus.ApplicationAudio),
		backend.AppRestrictedLowdelay: int(gopus.ApplicationLowDelay),
	}
}

// NewInstance expects application in gopus numbering, as returned by
// Applications.
func (Capability) NewInstance(sampleRate, channels, application int) (backend.Instance, error) {
	enc, err := gopus.NewEncoder(gopus.EncoderConfig{
		SampleRate:  sampleRate,
		Channels:    channels,
		Application: gopus.Application(application),
	})
	if err != nil {
		return nil, err
	}
	dec, err := gopus.NewDecoder(gopus.DefaultDecoderConfig(sampleRate, channels))
	if err != nil {
		return nil, err
	}
	return &Instance{
		enc:      enc,
		dec:      dec,
		channels: channels,
		pcm:      make([]int16, maxFrameSamples*channels),
	}, nil
}

// Instance is one gopus encoder/decoder pair.
type Instance struct {
	enc      *gopus.Encoder
	dec      *gopus.Decoder
	channels int
	pcm      []int16
}

// Encode encodes one frame of s16le PCM. The frame size is taken from the
// buffer length.
func (i *Instance) Encode(pcm []byte, _ int) ([]byte, error) {
	samples := make([]int16, len(pcm)/2)
	for n := range samples {
		samples[n] = int16(binary.LittleEndian.Uint16(pcm[n*2:]))
	}
	frameSize := len(samples) / i.channels
	if frameSize != i.enc.FrameSize() {
		if err := i.enc.SetFrameSize(frameSize); err != nil {
			return nil, fmt.Errorf("gopus: frame size %d: %w", frameSize, err)
		}
	}
	return i.enc.EncodeInt16Slice(samples)
}

// Decode decodes one packet to s16le PCM.
func (i *Instance) Decode(packet []byte, _ int) ([]byte, error) {
	if len(packet) == 0 {
		return nil, errors.New("gopus: empty packet")
	}
	n, err := i.dec.DecodeInt16(packet, i.pcm)
	if err != nil {
		return nil, err
	}
	samples := i.pcm[:n*i.channels]
	out := make([]byte, len(samples)*2)
	for k, s := range samples {
		binary.LittleEndian.PutUint16(out[k*2:], uint16(s))
	}
	return out, nil
}

// ApplyEncoderCTL applies the bitrate, FEC and packet loss requests. Other
// codes report backend.ErrUnsupportedCTL.
func (i *Instance) ApplyEncoderCTL(code, value int) error {
	switch code {
	case ctlSetBitrate:
		return i.enc.SetBitrate(value)
	case ctlSetInbandFEC:
		i.enc.SetFEC(value != 0)
		return nil
	case ctlSetPacketLossPerc:
		return i.enc.SetPacketLoss(value)
	}
	return fmt.Errorf("gopus: %w %#x", backend.ErrUnsupportedCTL, code)
}
