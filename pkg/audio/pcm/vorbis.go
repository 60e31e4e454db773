package pcm

import (
	"io"
	"math"

	"github.com/jfreymuth/oggvorbis"
)

type vorbisSource struct {
	dec     *oggvorbis.Reader
	f       Format
	floats  []float32
	pending []byte
}

// NewVorbisSource decodes an Ogg Vorbis stream and converts it to s16le.
func NewVorbisSource(r io.Reader) (Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, err
	}
	f := Format{SampleRate: dec.SampleRate(), Channels: dec.Channels()}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &vorbisSource{
		dec:    dec,
		f:      f,
		floats: make([]float32, 4096*f.Channels),
	}, nil
}

func (s *vorbisSource) Format() Format { return s.f }

func (s *vorbisSource) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		n, err := s.dec.Read(s.floats)
		if n > 0 {
			s.pending = putFloats(s.pending[:0], s.floats[:n])
			break
		}
		if err != nil {
			return 0, err
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func putFloats(dst []byte, samples []float32) []byte {
	for _, v := range samples {
		s := int16(math.Round(float64(max(-1, min(v, 1))) * 32767))
		dst = append(dst, byte(s), byte(uint16(s)>>8))
	}
	return dst
}
