package ogg

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/haivivi/opusstream/pkg/audio/codec/opus"
)

const (
	pageContinued = 0x01
	pageBOS       = 0x02
	pageEOS       = 0x04

	pageHeaderSize = 27
	maxPagePayload = 255 * 255
)

var (
	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("ogg: writer is closed")
	// ErrNilWriter is returned when the underlying writer is nil.
	ErrNilWriter = errors.New("ogg: nil writer")
	// ErrPacketTooLarge is returned for packets that do not fit in one page.
	ErrPacketTooLarge = errors.New("ogg: packet too large")
)

// OpusWriter writes a single logical Ogg Opus stream. The headers are
// written by NewOpusWriter; each packet then gets a page of its own.
type OpusWriter struct {
	mu      sync.Mutex
	w       io.Writer
	serial  uint32
	seq     uint32
	granule int64
	closed  bool
}

// NewOpusWriter writes the OpusHead and OpusTags pages to w and returns a
// writer for the audio packets.
func NewOpusWriter(w io.Writer, head Head, tags Tags) (*OpusWriter, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	hb, err := head.MarshalBinary()
	if err != nil {
		return nil, err
	}
	tb, err := tags.MarshalBinary()
	if err != nil {
		return nil, err
	}

	ow := &OpusWriter{w: w, serial: newSerial()}
	if err := ow.writePage(hb, pageBOS, 0); err != nil {
		return nil, err
	}
	if err := ow.writePage(tb, 0, 0); err != nil {
		return nil, err
	}
	return ow, nil
}

func newSerial() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 1
	}
	return binary.LittleEndian.Uint32(b[:])
}

// WritePacket writes one Opus packet and advances the granule position by
// the number of 48 kHz samples it carries.
func (w *OpusWriter) WritePacket(packet []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWriterClosed
	}
	w.granule += int64(opus.Packet(packet).Samples48k())
	return w.writePage(packet, 0, w.granule)
}

// Granule returns the granule position of the last page written.
func (w *OpusWriter) Granule() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.granule
}

// Serial returns the stream serial number.
func (w *OpusWriter) Serial() uint32 { return w.serial }

// Close writes the end-of-stream page. The underlying writer is left open.
func (w *OpusWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.writePage(nil, pageEOS, w.granule)
}

func (w *OpusWriter) writePage(payload []byte, flags byte, granule int64) error {
	if len(payload) >= maxPagePayload {
		return fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, len(payload))
	}
	nseg := len(payload)/255 + 1

	page := make([]byte, pageHeaderSize+nseg+len(payload))
	copy(page, "OggS")
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:], uint64(granule))
	binary.LittleEndian.PutUint32(page[14:], w.serial)
	binary.LittleEndian.PutUint32(page[18:], w.seq)
	page[26] = byte(nseg)
	for i := range nseg - 1 {
		page[pageHeaderSize+i] = 255
	}
	page[pageHeaderSize+nseg-1] = byte(len(payload) % 255)
	copy(page[pageHeaderSize+nseg:], payload)
	binary.LittleEndian.PutUint32(page[22:], pageChecksum(page))

	if _, err := w.w.Write(page); err != nil {
		return err
	}
	w.seq++
	return nil
}

var crcTable = func() *[256]uint32 {
	var t [256]uint32
	const poly = 0x04c11db7
	for i := range t {
		r := uint32(i) << 24
		for range 8 {
			if r&0x80000000 != 0 {
				r = r<<1 ^ poly
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return &t
}()

func pageChecksum(page []byte) uint32 {
	var crc uint32
	for _, b := range page {
		crc = crc<<8 ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}
