package opusstream

import (
	"errors"
	"fmt"
	"io"
)

// PacketWriter receives encoded packets, one call per packet.
type PacketWriter interface {
	WritePacket(packet []byte) error
}

// PacketWriterFunc adapts a function to PacketWriter.
type PacketWriterFunc func(packet []byte) error

func (f PacketWriterFunc) WritePacket(packet []byte) error { return f(packet) }

// Encoder turns a PCM byte stream into Opus packets. It implements
// io.Writer; Write may be called with chunks of any size.
type Encoder struct {
	*stream

	out      PacketWriter
	residual []byte
	packets  int64
}

// NewEncoder creates an encoder that writes each packet to out.
func NewEncoder(cfg Config, out PacketWriter, opts ...Option) (*Encoder, error) {
	if out == nil {
		return nil, errors.New("opusstream: nil packet writer")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	s, err := newStream(cfg, &o)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		stream:   s,
		out:      out,
		residual: make([]byte, 0, cfg.FrameBytes()),
	}, nil
}

// Write buffers pcm and encodes every complete frame. Packets are written
// in input order before Write returns. After a successful Write less than
// one frame of PCM stays buffered.
//
// If the backend fails to encode a frame, or the PacketWriter fails, that
// frame is dropped and the error returned. Frames after it stay buffered,
// so Buffered may report a frame or more until the next Write, which may
// be Write(nil), encodes them.
func (e *Encoder) Write(pcm []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inst == nil {
		return 0, ErrClosed
	}
	e.residual = append(e.residual, pcm...)

	frameBytes := e.cfg.FrameBytes()
	off := 0
	var err error
	for len(e.residual)-off >= frameBytes {
		frame := e.residual[off : off+frameBytes]
		off += frameBytes

		var packet []byte
		packet, err = e.inst.Encode(frame, e.frameSizeArg())
		if err != nil {
			err = fmt.Errorf("opusstream: encode: %w", err)
			break
		}
		if err = e.out.WritePacket(packet); err != nil {
			break
		}
		e.packets++
	}
	n := copy(e.residual, e.residual[off:])
	e.residual = e.residual[:n]
	return len(pcm), err
}

// ReadFrom encodes everything read from r until EOF.
func (e *Encoder) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := e.Write(buf[:n]); werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Buffered returns the number of PCM bytes waiting for a complete frame.
func (e *Encoder) Buffered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.residual)
}

// Packets returns the number of packets written so far.
func (e *Encoder) Packets() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.packets
}

// Close ends the stream. A partial frame left in the buffer is dropped, not
// padded. Close and Destroy may be called any number of times.
func (e *Encoder) Close() error {
	e.finish("close")
	return nil
}

// Destroy aborts the stream. It shares the cleanup of Close.
func (e *Encoder) Destroy() {
	e.finish("destroy")
}

func (e *Encoder) finish(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inst != nil && len(e.residual) > 0 {
		e.log.Debug("opusstream: drop partial frame", "bytes", len(e.residual))
	}
	e.residual = nil
	e.cleanupLocked(reason)
}
