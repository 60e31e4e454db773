//go:build opus

package opus

import (
	"math"
	"testing"
	"time"
)

func sine(n, channels, rate int) []int16 {
	pcm := make([]int16, n*channels)
	for i := range n {
		v := int16(math.Sin(2*math.Pi*440*float64(i)/float64(rate)) * 16000)
		for c := range channels {
			pcm[i*channels+c] = v
		}
	}
	return pcm
}

func TestEncodeDecode(t *testing.T) {
	for _, channels := range []int{1, 2} {
		const rate = 48000
		frameSize := rate * 20 / 1000

		enc, err := NewEncoder(rate, channels, ApplicationAudio)
		if err != nil {
			t.Fatalf("NewEncoder: %v", err)
		}
		defer enc.Close()
		dec, err := NewDecoder(rate, channels)
		if err != nil {
			t.Fatalf("NewDecoder: %v", err)
		}
		defer dec.Close()

		p, err := enc.Encode(sine(frameSize, channels, rate), frameSize)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got := p.Duration(); got != 20*time.Millisecond {
			t.Errorf("Duration() = %v, want 20ms", got)
		}
		if p.TOC().Stereo() != (channels == 2) {
			t.Errorf("channels=%d: Stereo() = %v", channels, p.TOC().Stereo())
		}

		pcm, err := dec.Decode(p)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got, want := len(pcm), frameSize*channels*2; got != want {
			t.Errorf("channels=%d: decoded %d bytes, want %d", channels, got, want)
		}
	}
}

func TestEncoderCTL(t *testing.T) {
	enc, err := NewEncoder(48000, 1, ApplicationVoIP)
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.SetBitrate(32000); err != nil {
		t.Errorf("SetBitrate: %v", err)
	}
	if err := enc.SetInbandFEC(true); err != nil {
		t.Errorf("SetInbandFEC: %v", err)
	}
	if err := enc.SetPacketLossPerc(10); err != nil {
		t.Errorf("SetPacketLossPerc: %v", err)
	}
	enc.Close()
	enc.Close()
	if err := enc.SetBitrate(32000); err == nil {
		t.Error("SetBitrate after Close should fail")
	}
	if _, err := enc.EncodeBytes(make([]byte, 1920), 0); err == nil {
		t.Error("EncodeBytes after Close should fail")
	}
}

func TestDecodeFramePLC(t *testing.T) {
	dec, err := NewDecoder(48000, 1)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()

	pcm, err := dec.DecodeFrame(nil, 960)
	if err != nil {
		t.Fatalf("DecodeFrame(nil): %v", err)
	}
	if len(pcm) != 960*2 {
		t.Errorf("PLC produced %d bytes, want %d", len(pcm), 960*2)
	}
}
