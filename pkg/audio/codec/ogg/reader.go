package ogg

import (
	"bytes"
	"errors"
	"io"
	"iter"

	"github.com/jonas747/ogg"
)

// OpusReader returns the packets of an Ogg stream one at a time. Header
// packets are returned like any other; empty packets, such as the payload
// of a bare end-of-stream page, are skipped.
type OpusReader struct {
	pd *ogg.PacketDecoder
}

// NewOpusReader returns a reader over the Ogg pages in r.
func NewOpusReader(r io.Reader) *OpusReader {
	return &OpusReader{pd: ogg.NewPacketDecoder(ogg.NewDecoder(r))}
}

// ReadPacket returns the next packet, or io.EOF once the stream ends. A
// stream cut inside a page also ends with io.EOF.
func (r *OpusReader) ReadPacket() ([]byte, error) {
	for {
		packet, _, err := r.pd.Decode()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		if len(packet) == 0 {
			continue
		}
		return bytes.Clone(packet), nil
	}
}

// ReadOpusPackets iterates over every packet in r.
//
//	for pkt, err := range ogg.ReadOpusPackets(file) {
//		if err != nil {
//			return err
//		}
//		// pkt is OpusHead, OpusTags, then audio
//	}
func ReadOpusPackets(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		or := NewOpusReader(r)
		for {
			p, err := or.ReadPacket()
			if err == io.EOF {
				return
			}
			if !yield(p, err) || err != nil {
				return
			}
		}
	}
}
