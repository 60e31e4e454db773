package opus

import (
	"testing"
	"time"
)

func TestTOC(t *testing.T) {
	tests := []struct {
		toc    TOC
		config int
		mode   Mode
		dur    time.Duration
	}{
		{TOC(0 << 3), 0, ModeSILK, 10 * time.Millisecond},
		{TOC(1 << 3), 1, ModeSILK, 20 * time.Millisecond},
		{TOC(11 << 3), 11, ModeSILK, 60 * time.Millisecond},
		{TOC(13 << 3), 13, ModeHybrid, 20 * time.Millisecond},
		{TOC(16 << 3), 16, ModeCELT, 2500 * time.Microsecond},
		{TOC(31 << 3), 31, ModeCELT, 20 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.toc.String(), func(t *testing.T) {
			if got := tt.toc.Config(); got != tt.config {
				t.Errorf("Config() = %d, want %d", got, tt.config)
			}
			if got := tt.toc.Mode(); got != tt.mode {
				t.Errorf("Mode() = %v, want %v", got, tt.mode)
			}
			if got := tt.toc.FrameDuration(); got != tt.dur {
				t.Errorf("FrameDuration() = %v, want %v", got, tt.dur)
			}
		})
	}
}

func TestTOCBits(t *testing.T) {
	if TOC(0).Stereo() {
		t.Error("TOC(0).Stereo() = true")
	}
	if !TOC(0b100).Stereo() {
		t.Error("TOC(0b100).Stereo() = false")
	}
	for code := range 4 {
		if got := TOC(code).Code(); got != code {
			t.Errorf("TOC(%d).Code() = %d", code, got)
		}
	}
}

func TestPacketDuration(t *testing.T) {
	const celtFB20 = 31 << 3
	tests := []struct {
		name    string
		p       Packet
		frames  int
		samples int
		dur     time.Duration
	}{
		{"empty", nil, 0, 0, 0},
		{"one frame", Packet{celtFB20, 0xaa}, 1, 960, 20 * time.Millisecond},
		{"two equal", Packet{celtFB20 | 1, 0xaa}, 2, 1920, 40 * time.Millisecond},
		{"two different", Packet{celtFB20 | 2, 0x01, 0xaa}, 2, 1920, 40 * time.Millisecond},
		{"arbitrary", Packet{celtFB20 | 3, 3, 0xaa}, 3, 2880, 60 * time.Millisecond},
		{"arbitrary truncated", Packet{celtFB20 | 3}, 0, 0, 0},
		{"silk 60ms", Packet{11 << 3}, 1, 2880, 60 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Frames(); got != tt.frames {
				t.Errorf("Frames() = %d, want %d", got, tt.frames)
			}
			if got := tt.p.Samples48k(); got != tt.samples {
				t.Errorf("Samples48k() = %d, want %d", got, tt.samples)
			}
			if got := tt.p.Duration(); got != tt.dur {
				t.Errorf("Duration() = %v, want %v", got, tt.dur)
			}
		})
	}
}
