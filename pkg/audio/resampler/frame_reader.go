package resampler

import "io"

// frameReader returns whole PCM frames (one sample for every channel) from
// r, holding back a partial frame until the rest of it arrives.
type frameReader struct {
	r         io.Reader
	frameSize int

	// partial frame, at most frameSize-1 bytes
	tail []byte
}

func newFrameReader(r io.Reader, frameSize int) *frameReader {
	return &frameReader{
		r:         r,
		frameSize: frameSize,
		tail:      make([]byte, 0, frameSize-1),
	}
}

// Read fills p with a multiple of frameSize bytes. It returns
// io.ErrShortBuffer if p cannot hold one frame, and io.ErrUnexpectedEOF
// if the input ends inside a frame.
func (fr *frameReader) Read(p []byte) (int, error) {
	if len(p) < fr.frameSize {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/fr.frameSize*fr.frameSize]

	n := copy(p, fr.tail)
	fr.tail = fr.tail[:0]

	rn, err := fr.r.Read(p[n:])
	n += rn
	mod := n % fr.frameSize
	if err != nil {
		if mod != 0 && err == io.EOF {
			return n, io.ErrUnexpectedEOF
		}
		return n, err
	}
	if mod != 0 {
		n -= mod
		fr.tail = append(fr.tail, p[n:n+mod]...)
	}
	return n, nil
}
