//go:build opus

package opus

/*
#cgo pkg-config: opus
#include <opus.h>
#include <stdlib.h>
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"
)

// maxFrameSamples is 120 ms at 48 kHz, the longest packet Opus allows.
const maxFrameSamples = 5760

var errDecoderClosed = errors.New("opus: decoder is closed")

// Decoder wraps a libopus decoder. It is not safe for concurrent use.
type Decoder struct {
	sampleRate int
	channels   int
	cDec       *C.OpusDecoder
}

// NewDecoder creates a decoder producing sampleRate Hz PCM with channels
// interleaved channels.
func NewDecoder(sampleRate, channels int) (*Decoder, error) {
	var cerr C.int
	cDec := C.opus_decoder_create(C.opus_int32(sampleRate), C.int(channels), &cerr)
	if cerr != C.OPUS_OK {
		return nil, fmt.Errorf("opus: decoder create failed: %s", C.GoString(C.opus_strerror(cerr)))
	}
	return &Decoder{sampleRate: sampleRate, channels: channels, cDec: cDec}, nil
}

// Close destroys the native decoder. It is safe to call more than once.
func (d *Decoder) Close() {
	if d.cDec != nil {
		C.opus_decoder_destroy(d.cDec)
		d.cDec = nil
	}
}

// Decode decodes one packet to s16le PCM. A nil packet runs packet loss
// concealment for the longest frame.
func (d *Decoder) Decode(p Packet) ([]byte, error) {
	return d.DecodeFrame(p, maxFrameSamples)
}

// DecodeFrame decodes one packet with room for at most frameSize samples per
// channel. Passing the expected frame size rejects oversized packets.
func (d *Decoder) DecodeFrame(p Packet, frameSize int) ([]byte, error) {
	if d.cDec == nil {
		return nil, errDecoderClosed
	}
	if frameSize <= 0 {
		frameSize = maxFrameSamples
	}
	buf := make([]int16, frameSize*d.channels)
	n, err := d.decodeTo(p, buf)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), 2*n*d.channels), nil
}

// DecodeTo decodes into buf and returns the samples per channel written.
func (d *Decoder) DecodeTo(p Packet, buf []int16) (int, error) {
	if d.cDec == nil {
		return 0, errDecoderClosed
	}
	return d.decodeTo(p, buf)
}

func (d *Decoder) decodeTo(p Packet, buf []int16) (int, error) {
	var data *C.uchar
	var dataLen C.opus_int32
	if len(p) > 0 {
		data = (*C.uchar)(unsafe.Pointer(&p[0]))
		dataLen = C.opus_int32(len(p))
	}
	n := C.opus_decode(d.cDec, data, dataLen,
		(*C.opus_int16)(unsafe.Pointer(&buf[0])), C.int(len(buf)/d.channels), 0)
	if n < 0 {
		return 0, fmt.Errorf("opus: decode failed: %s", C.GoString(C.opus_strerror(n)))
	}
	return int(n), nil
}

// SampleRate returns the sample rate of this decoder.
func (d *Decoder) SampleRate() int { return d.sampleRate }

// Channels returns the number of channels of this decoder.
func (d *Decoder) Channels() int { return d.channels }
