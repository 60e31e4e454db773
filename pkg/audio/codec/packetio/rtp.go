package packetio

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pion/rtp"

	"github.com/haivivi/opusstream/pkg/audio/codec/opus"
)

// OpusPayloadType is the dynamic payload type browsers assign to Opus.
const OpusPayloadType = 111

// RTPWriter wraps each packet in an RTP header and writes it length-prefixed.
type RTPWriter struct {
	lp        *LenPrefixWriter
	ssrc      uint32
	seq       uint16
	timestamp uint32
	started   bool
}

// NewRTPWriter returns an RTPWriter with a random SSRC, sequence number and
// initial timestamp.
func NewRTPWriter(w io.Writer) *RTPWriter {
	var b [10]byte
	rand.Read(b[:])
	return &RTPWriter{
		lp:        NewLenPrefixWriter(w),
		ssrc:      binary.BigEndian.Uint32(b[0:]),
		seq:       binary.BigEndian.Uint16(b[4:]),
		timestamp: binary.BigEndian.Uint32(b[6:]),
	}
}

// SSRC returns the synchronization source of the stream.
func (w *RTPWriter) SSRC() uint32 { return w.ssrc }

func (w *RTPWriter) WritePacket(packet []byte) error {
	p := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			Marker:         !w.started,
			PayloadType:    OpusPayloadType,
			SequenceNumber: w.seq,
			Timestamp:      w.timestamp,
			SSRC:           w.ssrc,
		},
		Payload: packet,
	}
	raw, err := p.Marshal()
	if err != nil {
		return fmt.Errorf("packetio: rtp marshal: %w", err)
	}
	if err := w.lp.WritePacket(raw); err != nil {
		return err
	}
	w.started = true
	w.seq++
	// the Opus RTP clock always runs at 48 kHz
	w.timestamp += uint32(opus.Packet(packet).Samples48k())
	return nil
}

func (w *RTPWriter) Close() error { return nil }

// RTPReader reads packets written by RTPWriter and returns their payloads.
type RTPReader struct {
	lp   *LenPrefixReader
	last *rtp.Header
}

func NewRTPReader(r io.Reader) *RTPReader {
	return &RTPReader{lp: NewLenPrefixReader(r)}
}

func (r *RTPReader) ReadPacket() ([]byte, error) {
	raw, err := r.lp.ReadPacket()
	if err != nil {
		return nil, err
	}
	var p rtp.Packet
	if err := p.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("packetio: rtp unmarshal: %w", err)
	}
	r.last = &p.Header
	return p.Payload, nil
}

// Header returns the RTP header of the last packet read, or nil.
func (r *RTPReader) Header() *rtp.Header { return r.last }
