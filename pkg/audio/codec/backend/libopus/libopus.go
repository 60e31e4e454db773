//go:build opus

package libopus

import (
	"errors"
	"fmt"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
	"github.com/haivivi/opusstream/pkg/audio/codec/opus"
)

func load() (backend.Capability, error) {
	// Creating a throwaway encoder proves the shared library resolved.
	enc, err := opus.NewEncoder(48000, 1, opus.ApplicationAudio)
	if err != nil {
		return nil, err
	}
	enc.Close()
	return capability{}, nil
}

type capability struct{}

func (capability) NewInstance(sampleRate, channels, application int) (backend.Instance, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, application)
	if err != nil {
		return nil, err
	}
	dec, err := opus.NewDecoder(sampleRate, channels)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &instance{enc: enc, dec: dec}, nil
}

type instance struct {
	enc *opus.Encoder
	dec *opus.Decoder
}

func (i *instance) Encode(pcm []byte, frameSize int) ([]byte, error) {
	return i.enc.EncodeBytes(pcm, frameSize)
}

func (i *instance) Decode(packet []byte, frameSize int) ([]byte, error) {
	if len(packet) == 0 {
		return nil, errors.New("libopus: empty packet")
	}
	return i.dec.DecodeFrame(packet, frameSize)
}

func (i *instance) ApplyEncoderCTL(code, value int) error {
	return i.enc.CTL(code, value)
}

func (i *instance) Release() error {
	if i.enc == nil {
		return fmt.Errorf("libopus: already released")
	}
	i.enc.Close()
	i.dec.Close()
	i.enc, i.dec = nil, nil
	return nil
}
