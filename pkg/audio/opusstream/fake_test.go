package opusstream

import (
	"errors"
	"io"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

// fakeMarker starts every packet produced by fakeInstance. It cannot be
// mistaken for the first byte of OpusHead or OpusTags.
const fakeMarker = 0xf8

type fakeCapability struct {
	apps      map[string]int
	instances []*fakeInstance
	apply     bool
	encoder   bool
}

func (c *fakeCapability) NewInstance(sampleRate, channels, application int) (backend.Instance, error) {
	base := &fakeInstance{sampleRate: sampleRate, channels: channels, application: application}
	c.instances = append(c.instances, base)
	switch {
	case c.apply:
		return &applyInstance{base}, nil
	case c.encoder:
		return &encoderInstance{base}, nil
	}
	return base, nil
}

type namedCapability struct{ *fakeCapability }

func (c namedCapability) Applications() map[string]int { return c.apps }

type ctlCall struct{ Code, Value int }

type fakeInstance struct {
	sampleRate  int
	channels    int
	application int

	encodeSizes []int
	decodeSizes []int
	ctls        []ctlCall
	releases    int
	releaseErr  error
	ctlErr      error
	failEncode  bool
}

func (i *fakeInstance) Encode(pcm []byte, frameSize int) ([]byte, error) {
	i.encodeSizes = append(i.encodeSizes, frameSize)
	if i.failEncode {
		return nil, errors.New("encode exploded")
	}
	return append([]byte{fakeMarker}, pcm...), nil
}

func (i *fakeInstance) Decode(packet []byte, frameSize int) ([]byte, error) {
	i.decodeSizes = append(i.decodeSizes, frameSize)
	if len(packet) == 0 || packet[0] != fakeMarker {
		return nil, errors.New("corrupt packet")
	}
	return append([]byte(nil), packet[1:]...), nil
}

func (i *fakeInstance) Release() error {
	i.releases++
	return i.releaseErr
}

type applyInstance struct{ *fakeInstance }

func (i *applyInstance) ApplyEncoderCTL(code, value int) error {
	i.ctls = append(i.ctls, ctlCall{code, value})
	return i.ctlErr
}

type encoderInstance struct{ *fakeInstance }

func (i *encoderInstance) EncoderCTL(code, value int) error {
	i.ctls = append(i.ctls, ctlCall{code, value})
	return i.ctlErr
}

func fakeRegistry(traits backend.Traits) (*backend.Registry, *fakeCapability) {
	c := &fakeCapability{
		apply:   traits.Control == backend.ControlApply,
		encoder: traits.Control == backend.ControlEncoder,
	}
	var capability backend.Capability = c
	if traits.NamedApplications {
		c.apps = map[string]int{
			backend.AppVoIP:               10,
			backend.AppAudio:              11,
			backend.AppRestrictedLowdelay: 12,
		}
		capability = namedCapability{c}
	}
	reg := backend.NewRegistry(
		backend.Descriptor{
			Name: "missing",
			Load: func() (backend.Capability, error) { return nil, backend.ErrNotCompiled },
		},
		backend.Descriptor{
			Name:   "fake",
			Traits: traits,
			Load:   func() (backend.Capability, error) { return capability, nil },
		},
	)
	return reg, c
}

type packetSink struct {
	packets [][]byte
	err     error
}

func (s *packetSink) WritePacket(p []byte) error {
	if s.err != nil {
		return s.err
	}
	s.packets = append(s.packets, append([]byte(nil), p...))
	return nil
}

type chunkWriter struct{ chunks [][]byte }

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, append([]byte(nil), p...))
	return len(p), nil
}

type slicePackets struct{ packets [][]byte }

func (r *slicePackets) ReadPacket() ([]byte, error) {
	if len(r.packets) == 0 {
		return nil, io.EOF
	}
	p := r.packets[0]
	r.packets = r.packets[1:]
	return p, nil
}
