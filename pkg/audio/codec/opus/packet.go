package opus

import (
	"fmt"
	"time"
)

// Packet is one Opus packet as produced by an encoder.
type Packet []byte

// TOC is the first byte of an Opus packet:
//
//	 0 1 2 3 4 5 6 7
//	+-+-+-+-+-+-+-+-+
//	| config  |s| c |
//	+-+-+-+-+-+-+-+-+
//
// https://datatracker.ietf.org/doc/html/rfc6716#section-3.1
type TOC byte

// Mode is the coding mode selected by a configuration number.
type Mode byte

const (
	ModeSILK Mode = iota + 1
	ModeHybrid
	ModeCELT
)

func (m Mode) String() string {
	switch m {
	case ModeSILK:
		return "SILK"
	case ModeHybrid:
		return "Hybrid"
	case ModeCELT:
		return "CELT"
	}
	return "invalid"
}

// Config returns the configuration number (0..31).
func (t TOC) Config() int { return int(t >> 3) }

// Stereo reports whether the s bit is set.
func (t TOC) Stereo() bool { return t&0b100 != 0 }

// Code returns the frame count code (0..3).
func (t TOC) Code() int { return int(t & 0b11) }

// Mode returns the coding mode for the configuration number.
func (t TOC) Mode() Mode {
	switch c := t.Config(); {
	case c <= 11:
		return ModeSILK
	case c <= 15:
		return ModeHybrid
	default:
		return ModeCELT
	}
}

// frameSamples48k is the per-frame sample count at 48 kHz for each
// configuration number.
var frameSamples48k = [32]int{
	480, 960, 1920, 2880, // SILK NB
	480, 960, 1920, 2880, // SILK MB
	480, 960, 1920, 2880, // SILK WB
	480, 960, // Hybrid SWB
	480, 960, // Hybrid FB
	120, 240, 480, 960, // CELT NB
	120, 240, 480, 960, // CELT WB
	120, 240, 480, 960, // CELT SWB
	120, 240, 480, 960, // CELT FB
}

// FrameDuration returns the duration of one frame.
func (t TOC) FrameDuration() time.Duration {
	return time.Duration(frameSamples48k[t.Config()]) * time.Second / 48000
}

func (t TOC) String() string {
	return fmt.Sprintf("opus_toc: config=%d mode=%s stereo=%v code=%d frame=%s",
		t.Config(), t.Mode(), t.Stereo(), t.Code(), t.FrameDuration())
}

// TOC returns the packet's TOC byte, or 0 for an empty packet.
func (p Packet) TOC() TOC {
	if len(p) == 0 {
		return 0
	}
	return TOC(p[0])
}

// Frames returns the number of frames in the packet, or 0 if the packet is
// empty or truncated.
func (p Packet) Frames() int {
	if len(p) == 0 {
		return 0
	}
	switch p.TOC().Code() {
	case 0:
		return 1
	case 1, 2:
		return 2
	}
	if len(p) < 2 {
		return 0
	}
	return int(p[1] & 0b00111111)
}

// Samples48k returns the number of samples per channel the packet decodes to
// at 48 kHz. Ogg Opus granule positions count in these units.
func (p Packet) Samples48k() int {
	if len(p) == 0 {
		return 0
	}
	return p.Frames() * frameSamples48k[p.TOC().Config()]
}

// Duration returns the total audio duration carried by the packet.
func (p Packet) Duration() time.Duration {
	return time.Duration(p.Samples48k()) * time.Second / 48000
}
