package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// toneAmplitude is roughly half of full scale.
const toneAmplitude = 16000

type toneSource struct {
	f     Format
	freq  float64
	pos   int64
	total int64
}

// NewToneSource returns a sine wave of freq Hz lasting d, the same on every
// channel. A zero freq yields silence.
func NewToneSource(freq float64, d time.Duration, f Format) (Source, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if freq < 0 || d < 0 {
		return nil, fmt.Errorf("pcm: invalid tone %gHz for %v", freq, d)
	}
	return &toneSource{f: f, freq: freq, total: f.SamplesInDuration(d)}, nil
}

func (s *toneSource) Format() Format { return s.f }

func (s *toneSource) Read(p []byte) (int, error) {
	if s.pos >= s.total {
		return 0, io.EOF
	}
	fb := s.f.FrameBytes()
	frames := min(int64(len(p)/fb), s.total-s.pos)
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	for i := range frames {
		t := float64(s.pos+i) / float64(s.f.SampleRate)
		v := uint16(int16(toneAmplitude * math.Sin(2*math.Pi*s.freq*t)))
		frame := p[i*int64(fb) : (i+1)*int64(fb)]
		for c := 0; c < s.f.Channels; c++ {
			binary.LittleEndian.PutUint16(frame[c*2:], v)
		}
	}
	s.pos += frames
	return int(frames) * fb, nil
}
