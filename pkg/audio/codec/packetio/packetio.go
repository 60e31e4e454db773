package packetio

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/haivivi/opusstream/pkg/audio/codec/ogg"
)

// Format names a packet framing.
type Format string

const (
	LenPrefix Format = "lenprefix"
	Ogg       Format = "ogg"
	RTP       Format = "rtp"
	MsgPack   Format = "msgpack"
)

var (
	// ErrUnknownFormat is returned for a framing name that is not supported.
	ErrUnknownFormat = errors.New("packetio: unknown format")
	// ErrPacketTooLarge is returned when a packet does not fit the framing.
	ErrPacketTooLarge = errors.New("packetio: packet too large")
)

// Formats lists the supported framings.
func Formats() []Format {
	return []Format{LenPrefix, Ogg, RTP, MsgPack}
}

// ParseFormat returns the Format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Writer writes one packet per call.
type Writer interface {
	WritePacket(packet []byte) error
	io.Closer
}

// Reader reads one packet per call and returns io.EOF at the end.
type Reader interface {
	ReadPacket() ([]byte, error)
}

// StreamInfo describes the audio carried by the packets. Only the ogg
// framing records it, in the OpusHead header.
type StreamInfo struct {
	Channels   int
	SampleRate int
	Vendor     string
}

// NewWriter returns a Writer for format f on w.
func NewWriter(f Format, w io.Writer, info StreamInfo) (Writer, error) {
	switch f {
	case LenPrefix:
		return NewLenPrefixWriter(w), nil
	case Ogg:
		ow, err := ogg.NewOpusWriter(w, ogg.Head{
			Channels:   uint8(info.Channels),
			PreSkip:    ogg.DefaultPreSkip,
			SampleRate: uint32(info.SampleRate),
		}, ogg.Tags{Vendor: info.Vendor})
		if err != nil {
			return nil, err
		}
		return ow, nil
	case RTP:
		return NewRTPWriter(w), nil
	case MsgPack:
		return NewMsgPackWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// NewReader returns a Reader for format f on r.
func NewReader(f Format, r io.Reader) (Reader, error) {
	switch f {
	case LenPrefix:
		return NewLenPrefixReader(r), nil
	case Ogg:
		return ogg.NewOpusReader(r), nil
	case RTP:
		return NewRTPReader(r), nil
	case MsgPack:
		return NewMsgPackReader(r), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
