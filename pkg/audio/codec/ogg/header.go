package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headMagic = "OpusHead"
	tagsMagic = "OpusTags"

	// DefaultPreSkip is the recommended 80 ms of pre-skip at 48 kHz.
	DefaultPreSkip = 3840
)

// ErrInvalidHeader is returned when an OpusHead or OpusTags packet cannot be
// parsed.
var ErrInvalidHeader = errors.New("ogg: invalid opus header")

// Head is the identification header, the first packet of an Ogg Opus stream.
type Head struct {
	Version       uint8  `json:"version" yaml:"version"`
	Channels      uint8  `json:"channels" yaml:"channels"`
	PreSkip       uint16 `json:"pre_skip" yaml:"pre_skip"`
	SampleRate    uint32 `json:"sample_rate" yaml:"sample_rate"`
	OutputGain    int16  `json:"output_gain" yaml:"output_gain"`
	MappingFamily uint8  `json:"mapping_family" yaml:"mapping_family"`
}

// MarshalBinary encodes h as a 19 byte OpusHead packet. Version 0 is written
// as 1.
func (h Head) MarshalBinary() ([]byte, error) {
	if h.MappingFamily != 0 {
		return nil, fmt.Errorf("ogg: mapping family %d not supported", h.MappingFamily)
	}
	if h.Channels == 0 || h.Channels > 2 {
		return nil, fmt.Errorf("ogg: %d channels not supported", h.Channels)
	}
	b := make([]byte, 19)
	copy(b, headMagic)
	b[8] = max(h.Version, 1)
	b[9] = h.Channels
	binary.LittleEndian.PutUint16(b[10:], h.PreSkip)
	binary.LittleEndian.PutUint32(b[12:], h.SampleRate)
	binary.LittleEndian.PutUint16(b[16:], uint16(h.OutputGain))
	b[18] = h.MappingFamily
	return b, nil
}

// ParseHead decodes an OpusHead packet.
func ParseHead(b []byte) (Head, error) {
	if len(b) < 19 || string(b[:8]) != headMagic {
		return Head{}, fmt.Errorf("%w: bad OpusHead", ErrInvalidHeader)
	}
	return Head{
		Version:       b[8],
		Channels:      b[9],
		PreSkip:       binary.LittleEndian.Uint16(b[10:]),
		SampleRate:    binary.LittleEndian.Uint32(b[12:]),
		OutputGain:    int16(binary.LittleEndian.Uint16(b[16:])),
		MappingFamily: b[18],
	}, nil
}

// Tags is the comment header, the second packet of an Ogg Opus stream.
type Tags struct {
	Vendor   string   `json:"vendor" yaml:"vendor"`
	Comments []string `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// MarshalBinary encodes t as an OpusTags packet.
func (t Tags) MarshalBinary() ([]byte, error) {
	size := 8 + 4 + len(t.Vendor) + 4
	for _, c := range t.Comments {
		size += 4 + len(c)
	}
	b := make([]byte, 0, size)
	b = append(b, tagsMagic...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Vendor)))
	b = append(b, t.Vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(t.Comments)))
	for _, c := range t.Comments {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(c)))
		b = append(b, c...)
	}
	return b, nil
}

// ParseTags decodes an OpusTags packet.
func ParseTags(b []byte) (Tags, error) {
	if len(b) < 8 || string(b[:8]) != tagsMagic {
		return Tags{}, fmt.Errorf("%w: bad OpusTags", ErrInvalidHeader)
	}
	rest := b[8:]
	next := func() (string, bool) {
		if len(rest) < 4 {
			return "", false
		}
		n := binary.LittleEndian.Uint32(rest)
		if uint64(n) > uint64(len(rest)-4) {
			return "", false
		}
		s := string(rest[4 : 4+n])
		rest = rest[4+n:]
		return s, true
	}

	var t Tags
	var ok bool
	if t.Vendor, ok = next(); !ok {
		return Tags{}, fmt.Errorf("%w: truncated vendor", ErrInvalidHeader)
	}
	if len(rest) < 4 {
		return Tags{}, fmt.Errorf("%w: missing comment count", ErrInvalidHeader)
	}
	count := binary.LittleEndian.Uint32(rest)
	rest = rest[4:]
	for i := uint32(0); i < count; i++ {
		c, ok := next()
		if !ok {
			return Tags{}, fmt.Errorf("%w: truncated comment %d", ErrInvalidHeader, i)
		}
		t.Comments = append(t.Comments, c)
	}
	return t, nil
}
