//go:build opus

package opus

/*
#cgo pkg-config: opus
#include <opus.h>
#include <stdlib.h>

// opus_encoder_ctl is variadic; every setter used here takes one opus_int32.
static int opus_encoder_ctl_set(OpusEncoder *enc, int request, opus_int32 value) {
    return opus_encoder_ctl(enc, request, value);
}
*/
import "C"
import (
	"errors"
	"fmt"
	"unsafe"
)

// Application profiles accepted by NewEncoder.
const (
	ApplicationVoIP               = int(C.OPUS_APPLICATION_VOIP)
	ApplicationAudio              = int(C.OPUS_APPLICATION_AUDIO)
	ApplicationRestrictedLowdelay = int(C.OPUS_APPLICATION_RESTRICTED_LOWDELAY)
)

// Encoder control requests.
const (
	SetBitrateRequest        = int(C.OPUS_SET_BITRATE_REQUEST)
	SetComplexityRequest     = int(C.OPUS_SET_COMPLEXITY_REQUEST)
	SetInbandFECRequest      = int(C.OPUS_SET_INBAND_FEC_REQUEST)
	SetPacketLossPercRequest = int(C.OPUS_SET_PACKET_LOSS_PERC_REQUEST)
)

// maxPacketBytes is the largest packet libopus recommends allocating for.
const maxPacketBytes = 4000

var errEncoderClosed = errors.New("opus: encoder is closed")

// Encoder wraps a libopus encoder. It is not safe for concurrent use.
type Encoder struct {
	sampleRate int
	channels   int
	cEnc       *C.OpusEncoder
}

// NewEncoder creates an encoder for sampleRate (8000, 12000, 16000, 24000
// or 48000) and 1 or 2 channels.
func NewEncoder(sampleRate, channels, application int) (*Encoder, error) {
	var cerr C.int
	cEnc := C.opus_encoder_create(C.opus_int32(sampleRate), C.int(channels), C.int(application), &cerr)
	if cerr != C.OPUS_OK {
		return nil, fmt.Errorf("opus: encoder create failed: %s", C.GoString(C.opus_strerror(cerr)))
	}
	return &Encoder{sampleRate: sampleRate, channels: channels, cEnc: cEnc}, nil
}

// Close destroys the native encoder. It is safe to call more than once.
func (e *Encoder) Close() {
	if e.cEnc != nil {
		C.opus_encoder_destroy(e.cEnc)
		e.cEnc = nil
	}
}

// Encode encodes frameSize samples per channel of interleaved PCM.
func (e *Encoder) Encode(pcm []int16, frameSize int) (Packet, error) {
	if e.cEnc == nil {
		return nil, errEncoderClosed
	}
	if frameSize <= 0 || len(pcm) < frameSize*e.channels {
		return nil, fmt.Errorf("opus: need %d samples, got %d", frameSize*e.channels, len(pcm))
	}
	buf := make([]byte, maxPacketBytes)
	n := C.opus_encode(e.cEnc,
		(*C.opus_int16)(unsafe.Pointer(&pcm[0])), C.int(frameSize),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.opus_int32(len(buf)))
	if n < 0 {
		return nil, fmt.Errorf("opus: encode failed: %s", C.GoString(C.opus_strerror(n)))
	}
	return buf[:n], nil
}

// EncodeBytes encodes s16le PCM. A frameSize of 0 is derived from len(pcm).
func (e *Encoder) EncodeBytes(pcm []byte, frameSize int) (Packet, error) {
	if len(pcm) < 2 {
		return nil, fmt.Errorf("opus: empty pcm")
	}
	if frameSize == 0 {
		frameSize = len(pcm) / 2 / e.channels
	}
	samples := unsafe.Slice((*int16)(unsafe.Pointer(&pcm[0])), len(pcm)/2)
	return e.Encode(samples, frameSize)
}

// CTL applies an integer-valued encoder control request.
func (e *Encoder) CTL(request, value int) error {
	if e.cEnc == nil {
		return errEncoderClosed
	}
	ret := C.opus_encoder_ctl_set(e.cEnc, C.int(request), C.opus_int32(value))
	if ret != C.OPUS_OK {
		return fmt.Errorf("opus: ctl %#x failed: %s", request, C.GoString(C.opus_strerror(ret)))
	}
	return nil
}

// SetBitrate sets the target bitrate in bits per second.
func (e *Encoder) SetBitrate(bitrate int) error {
	return e.CTL(SetBitrateRequest, bitrate)
}

// SetComplexity sets the computational complexity (0-10).
func (e *Encoder) SetComplexity(complexity int) error {
	return e.CTL(SetComplexityRequest, complexity)
}

// SetInbandFEC enables or disables in-band forward error correction.
func (e *Encoder) SetInbandFEC(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return e.CTL(SetInbandFECRequest, v)
}

// SetPacketLossPerc sets the expected packet loss percentage (0-100).
func (e *Encoder) SetPacketLossPerc(percent int) error {
	return e.CTL(SetPacketLossPercRequest, percent)
}

// SampleRate returns the sample rate of this encoder.
func (e *Encoder) SampleRate() int { return e.sampleRate }

// Channels returns the number of channels of this encoder.
func (e *Encoder) Channels() int { return e.channels }
