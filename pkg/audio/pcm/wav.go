package pcm

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errNotWAV = errors.New("pcm: not a wav file")

type wavSource struct {
	dec     *wav.Decoder
	f       Format
	buf     *audio.IntBuffer
	pending []byte
}

// NewWAVSource decodes a 16-bit PCM WAV file.
func NewWAVSource(r io.ReadSeeker) (Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errNotWAV
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, err
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("pcm: wav bit depth %d, only 16 is supported", dec.BitDepth)
	}
	af := dec.Format()
	f := Format{SampleRate: af.SampleRate, Channels: af.NumChannels}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &wavSource{
		dec: dec,
		f:   f,
		buf: &audio.IntBuffer{Format: af, Data: make([]int, 4096*f.Channels), SourceBitDepth: 16},
	}, nil
}

func (s *wavSource) Format() Format { return s.f }

func (s *wavSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		s.buf.Data = s.buf.Data[:cap(s.buf.Data)]
		n, err := s.dec.PCMBuffer(s.buf)
		if n == 0 {
			if err == nil {
				err = io.EOF
			}
			return 0, err
		}
		s.pending = putInts(s.pending[:0], s.buf.Data[:n])
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func putInts(dst []byte, samples []int) []byte {
	for _, v := range samples {
		u := uint16(int16(v))
		dst = append(dst, byte(u), byte(u>>8))
	}
	return dst
}

// WAVWriter writes s16le PCM as a 16-bit WAV file. The header is finalized
// on Close, so the destination must be seekable.
type WAVWriter struct {
	enc *wav.Encoder
	f   Format
	buf *audio.IntBuffer
}

// NewWAVWriter starts a WAV file in format f.
func NewWAVWriter(ws io.WriteSeeker, f Format) (*WAVWriter, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &WAVWriter{
		enc: wav.NewEncoder(ws, f.SampleRate, 16, f.Channels, 1),
		f:   f,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

// Write appends whole samples from p. A trailing odd byte is rejected.
func (w *WAVWriter) Write(p []byte) (int, error) {
	if len(p)%2 != 0 {
		return 0, fmt.Errorf("pcm: odd write of %d bytes", len(p))
	}
	w.buf.Data = w.buf.Data[:0]
	for i := 0; i < len(p); i += 2 {
		w.buf.Data = append(w.buf.Data, int(int16(uint16(p[i])|uint16(p[i+1])<<8)))
	}
	if err := w.enc.Write(w.buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Format returns the format being written.
func (w *WAVWriter) Format() Format { return w.f }

// Close writes the final header sizes. It does not close the destination.
func (w *WAVWriter) Close() error {
	return w.enc.Close()
}
