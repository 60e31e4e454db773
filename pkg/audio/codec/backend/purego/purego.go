//go:build darwin || linux

package purego

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
)

const (
	opusOK = 0

	maxPacketBytes  = 4000
	maxFrameSamples = 5760
)

var (
	libOnce sync.Once
	libErr  error
)

var (
	opusEncoderCreate  func(fs, channels, application int32, errOut *int32) uintptr
	opusEncode         func(enc uintptr, pcm *byte, frameSize int32, data *byte, maxBytes int32) int32
	opusEncoderCTL     func(enc uintptr, request, value int32) int32
	opusEncoderDestroy func(enc uintptr)

	opusDecoderCreate  func(fs, channels int32, errOut *int32) uintptr
	opusDecode         func(dec uintptr, data *byte, length int32, pcm *byte, frameSize, decodeFEC int32) int32
	opusDecoderDestroy func(dec uintptr)

	opusStrerror func(code int32) string
)

func libPaths() []string {
	var paths []string
	if p := os.Getenv(EnvLibPath); p != "" {
		paths = append(paths, p)
	}
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			"libopus.0.dylib",
			"libopus.dylib",
			"/opt/homebrew/lib/libopus.dylib",
			"/usr/local/lib/libopus.dylib",
		)
	default:
		paths = append(paths,
			"libopus.so.0",
			"libopus.so",
			"/usr/lib/x86_64-linux-gnu/libopus.so.0",
			"/usr/lib/aarch64-linux-gnu/libopus.so.0",
			"/usr/local/lib/libopus.so",
		)
	}
	return paths
}

func openLib() error {
	var errs []error
	for _, path := range libPaths() {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := registerSymbols(h); err != nil {
			purego.Dlclose(h)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		return nil
	}
	return fmt.Errorf("purego: libopus not found (set %s): %w", EnvLibPath, errors.Join(errs...))
}

func registerSymbols(h uintptr) (err error) {
	defer func() {
		// RegisterLibFunc panics on a missing symbol.
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	purego.RegisterLibFunc(&opusEncoderCreate, h, "opus_encoder_create")
	purego.RegisterLibFunc(&opusEncode, h, "opus_encode")
	purego.RegisterLibFunc(&opusEncoderCTL, h, "opus_encoder_ctl")
	purego.RegisterLibFunc(&opusEncoderDestroy, h, "opus_encoder_destroy")
	purego.RegisterLibFunc(&opusDecoderCreate, h, "opus_decoder_create")
	purego.RegisterLibFunc(&opusDecode, h, "opus_decode")
	purego.RegisterLibFunc(&opusDecoderDestroy, h, "opus_decoder_destroy")
	purego.RegisterLibFunc(&opusStrerror, h, "opus_strerror")
	return nil
}

func load() (backend.Capability, error) {
	libOnce.Do(func() { libErr = openLib() })
	if libErr != nil {
		return nil, libErr
	}
	return capability{}, nil
}

type capability struct{}

func (capability) NewInstance(sampleRate, channels, application int) (backend.Instance, error) {
	var code int32
	enc := opusEncoderCreate(int32(sampleRate), int32(channels), int32(application), &code)
	if code != opusOK || enc == 0 {
		return nil, fmt.Errorf("purego: encoder create failed: %s", opusStrerror(code))
	}
	dec := opusDecoderCreate(int32(sampleRate), int32(channels), &code)
	if code != opusOK || dec == 0 {
		opusEncoderDestroy(enc)
		return nil, fmt.Errorf("purego: decoder create failed: %s", opusStrerror(code))
	}
	return &instance{enc: enc, dec: dec, channels: channels}, nil
}

type instance struct {
	enc      uintptr
	dec      uintptr
	channels int
}

var errReleased = errors.New("purego: instance released")

func (i *instance) Encode(pcm []byte, frameSize int) ([]byte, error) {
	if i.enc == 0 {
		return nil, errReleased
	}
	if frameSize <= 0 {
		frameSize = len(pcm) / 2 / i.channels
	}
	if frameSize == 0 || len(pcm) < frameSize*i.channels*2 {
		return nil, fmt.Errorf("purego: need %d pcm bytes, got %d", frameSize*i.channels*2, len(pcm))
	}
	out := make([]byte, maxPacketBytes)
	// pcm holds s16le samples; both supported platforms are little-endian.
	n := opusEncode(i.enc, &pcm[0], int32(frameSize), &out[0], int32(len(out)))
	if n < 0 {
		return nil, fmt.Errorf("purego: encode failed: %s", opusStrerror(n))
	}
	return out[:n], nil
}

func (i *instance) Decode(packet []byte, frameSize int) ([]byte, error) {
	if i.dec == 0 {
		return nil, errReleased
	}
	if len(packet) == 0 {
		return nil, errors.New("purego: empty packet")
	}
	if frameSize <= 0 {
		frameSize = maxFrameSamples
	}
	out := make([]byte, frameSize*i.channels*2)
	n := opusDecode(i.dec, &packet[0], int32(len(packet)), &out[0], int32(frameSize), 0)
	if n < 0 {
		return nil, fmt.Errorf("purego: decode failed: %s", opusStrerror(n))
	}
	return out[:int(n)*i.channels*2], nil
}

// EncoderCTL calls the variadic opus_encoder_ctl through a fixed
// three-argument signature. Apple arm64 passes variadic arguments on the
// stack, so the call is refused there.
func (i *instance) EncoderCTL(code, value int) error {
	if i.enc == 0 {
		return errReleased
	}
	if runtime.GOOS == "darwin" && runtime.GOARCH == "arm64" {
		return fmt.Errorf("purego: %w %#x: variadic calls on darwin/arm64", backend.ErrUnsupportedCTL, code)
	}
	if ret := opusEncoderCTL(i.enc, int32(code), int32(value)); ret != opusOK {
		return fmt.Errorf("purego: ctl %#x failed: %s", code, opusStrerror(ret))
	}
	return nil
}

func (i *instance) Release() error {
	if i.enc != 0 {
		opusEncoderDestroy(i.enc)
		i.enc = 0
	}
	if i.dec != 0 {
		opusDecoderDestroy(i.dec)
		i.dec = 0
	}
	return nil
}
