package packetio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// LenPrefixWriter writes each packet as [u16 LE length][payload].
type LenPrefixWriter struct {
	w io.Writer
}

func NewLenPrefixWriter(w io.Writer) *LenPrefixWriter {
	return &LenPrefixWriter{w: w}
}

func (w *LenPrefixWriter) WritePacket(packet []byte) error {
	if len(packet) > math.MaxUint16 {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(packet))
	}
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(packet)))
	if _, err := w.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.w.Write(packet)
	return err
}

// Close is a no-op; the underlying writer is owned by the caller.
func (w *LenPrefixWriter) Close() error { return nil }

// LenPrefixReader reads packets written by LenPrefixWriter.
type LenPrefixReader struct {
	r io.Reader
}

func NewLenPrefixReader(r io.Reader) *LenPrefixReader {
	return &LenPrefixReader{r: r}
}

// ReadPacket returns io.EOF at a clean end and io.ErrUnexpectedEOF if the
// stream stops inside a packet.
func (r *LenPrefixReader) ReadPacket() ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r.r, lenBuf[:]); err != nil {
		return nil, err
	}
	packet := make([]byte, binary.LittleEndian.Uint16(lenBuf[:]))
	if _, err := io.ReadFull(r.r, packet); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return packet, nil
}
