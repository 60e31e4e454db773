package resampler

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/opusstream/pkg/audio/pcm"
)

// Resampler converts a 16-bit PCM stream from one sample rate and channel
// layout to another. It implements pcm.Source for the destination format.
type Resampler struct {
	src    *frameReader
	srcFmt pcm.Format
	dstFmt pcm.Format

	mu       sync.Mutex
	rs       resampling.Resampler // nil when the rates match
	readBuf  []byte
	pending  []byte
	srcErr   error
	closeErr error
}

var _ pcm.Source = (*Resampler)(nil)

// New returns a Resampler reading srcFmt audio from src and producing dstFmt.
func New(src io.Reader, srcFmt, dstFmt pcm.Format) (*Resampler, error) {
	if err := srcFmt.Validate(); err != nil {
		return nil, fmt.Errorf("resampler: source: %w", err)
	}
	if err := dstFmt.Validate(); err != nil {
		return nil, fmt.Errorf("resampler: destination: %w", err)
	}
	r := &Resampler{
		src:    newFrameReader(src, srcFmt.FrameBytes()),
		srcFmt: srcFmt,
		dstFmt: dstFmt,
	}
	if srcFmt.SampleRate != dstFmt.SampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(srcFmt.SampleRate),
			OutputRate: float64(dstFmt.SampleRate),
			Channels:   dstFmt.Channels,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("resampler: %w", err)
		}
		r.rs = rs
	}
	return r, nil
}

// Format returns the destination format.
func (r *Resampler) Format() pcm.Format { return r.dstFmt }

// Read fills p with whole destination frames. It is not safe for concurrent
// use with other Read calls.
func (r *Resampler) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closeErr != nil {
		return 0, r.closeErr
	}
	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}
	if r.srcErr != nil {
		return 0, r.srcErr
	}

	fb := r.dstFmt.FrameBytes()
	if len(p) < fb {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/fb*fb]

	for {
		out, err := r.process(len(p) / fb)
		n := copy(p, out)
		if n < len(out) {
			r.pending = append(r.pending[:0], out[n:]...)
			if err != nil {
				r.srcErr = err
				err = nil
			}
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
}

// process reads enough source frames for about want destination frames and
// returns the converted bytes.
func (r *Resampler) process(want int) ([]byte, error) {
	frames := want
	if r.rs != nil {
		frames = want*r.srcFmt.SampleRate/r.dstFmt.SampleRate + 1
	}
	size := frames * r.srcFmt.FrameBytes()
	if cap(r.readBuf) < size {
		r.readBuf = make([]byte, size)
	}
	n, err := r.src.Read(r.readBuf[:size])
	if n == 0 {
		return nil, err
	}

	samples := make([]int16, n/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(r.readBuf[i*2:]))
	}
	samples = remix(samples, r.srcFmt.Channels, r.dstFmt.Channels)

	if r.rs == nil {
		return int16Bytes(samples), err
	}

	in := make([]float64, len(samples))
	for i, s := range samples {
		in[i] = float64(s) / 32768
	}
	out, perr := r.rs.Process(in)
	if perr != nil {
		return nil, fmt.Errorf("resampler: %w", perr)
	}
	ch := r.dstFmt.Channels
	out = out[:len(out)/ch*ch]
	converted := make([]int16, len(out))
	for i, v := range out {
		converted[i] = floatToInt16(v)
	}
	return int16Bytes(converted), err
}

// Close releases the resampler. Later Read calls return io.ErrClosedPipe.
func (r *Resampler) Close() error {
	return r.CloseWithError(fmt.Errorf("resampler: %w", io.ErrClosedPipe))
}

// CloseWithError closes the resampler so that later Read calls return err.
func (r *Resampler) CloseWithError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr == nil {
		r.closeErr = err
	}
	r.rs = nil
	r.pending = nil
	return nil
}

// remix maps interleaved samples from one channel count to another. Mono
// output averages all source channels; mono input is duplicated; other
// layouts keep the first channels and repeat them when widening.
func remix(in []int16, from, to int) []int16 {
	if from == to {
		return in
	}
	frames := len(in) / from
	out := make([]int16, frames*to)
	for f := range frames {
		src := in[f*from : f*from+from]
		dst := out[f*to : f*to+to]
		if to == 1 {
			var sum int32
			for _, s := range src {
				sum += int32(s)
			}
			dst[0] = int16(sum / int32(from))
			continue
		}
		for c := range dst {
			dst[c] = src[c%from]
		}
	}
	return out
}

func floatToInt16(v float64) int16 {
	v = math.Round(v * 32767)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}

func int16Bytes(s []int16) []byte {
	b := make([]byte, len(s)*2)
	for i, v := range s {
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}
