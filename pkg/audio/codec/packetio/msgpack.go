package packetio

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Record is one framed packet in the msgpack framing.
type Record struct {
	Seq  uint64 `msgpack:"seq"`
	Data []byte `msgpack:"data"`
}

// MsgPackWriter writes each packet as a Record with an increasing Seq.
type MsgPackWriter struct {
	enc *msgpack.Encoder
	seq uint64
}

func NewMsgPackWriter(w io.Writer) *MsgPackWriter {
	return &MsgPackWriter{enc: msgpack.NewEncoder(w)}
}

func (w *MsgPackWriter) WritePacket(packet []byte) error {
	if err := w.enc.Encode(&Record{Seq: w.seq, Data: packet}); err != nil {
		return err
	}
	w.seq++
	return nil
}

func (w *MsgPackWriter) Close() error { return nil }

// MsgPackReader reads Records and returns their data.
type MsgPackReader struct {
	dec  *msgpack.Decoder
	last Record
}

func NewMsgPackReader(r io.Reader) *MsgPackReader {
	return &MsgPackReader{dec: msgpack.NewDecoder(r)}
}

func (r *MsgPackReader) ReadPacket() ([]byte, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		return nil, err
	}
	r.last = rec
	return rec.Data, nil
}

// Seq returns the sequence number of the last record read.
func (r *MsgPackReader) Seq() uint64 { return r.last.Seq }
