//go:build opus

package hraban

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/hraban/opus.v2"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

// Control requests understood by EncoderCTL, libopus numbering.
const (
	ctlSetBitrate        = 0xfa2
	ctlSetInbandFEC      = 0xfac
	ctlSetPacketLossPerc = 0xfae
)

// maxFrameSamples is 120 ms at 48 kHz.
const maxFrameSamples = 5760

func load() (backend.Capability, error) {
	if _, err := opus.NewEncoder(48000, 1, opus.AppAudio); err != nil {
		return nil, err
	}
	return capability{}, nil
}

type capability struct{}

func (capability) NewInstance(sampleRate, channels, application int) (backend.Instance, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.Application(application))
	if err != nil {
		return nil, err
	}
	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &instance{enc: enc, dec: dec, channels: channels}, nil
}

type instance struct {
	enc      *opus.Encoder
	dec      *opus.Decoder
	channels int
}

func (i *instance) Encode(pcm []byte, _ int) ([]byte, error) {
	samples := make([]int16, len(pcm)/2)
	for n := range samples {
		samples[n] = int16(binary.LittleEndian.Uint16(pcm[n*2:]))
	}
	out := make([]byte, 4000)
	n, err := i.enc.Encode(samples, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (i *instance) Decode(packet []byte, frameSize int) ([]byte, error) {
	if frameSize <= 0 {
		frameSize = maxFrameSamples
	}
	samples := make([]int16, frameSize*i.channels)
	n, err := i.dec.Decode(packet, samples)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n*i.channels*2)
	for k, s := range samples[:n*i.channels] {
		binary.LittleEndian.PutUint16(out[k*2:], uint16(s))
	}
	return out, nil
}

func (i *instance) EncoderCTL(code, value int) error {
	switch code {
	case ctlSetBitrate:
		return i.enc.SetBitrate(value)
	case ctlSetInbandFEC:
		return i.enc.SetInBandFEC(value != 0)
	case ctlSetPacketLossPerc:
		return i.enc.SetPacketLossPerc(value)
	}
	return fmt.Errorf("hraban: %w %#x", backend.ErrUnsupportedCTL, code)
}
