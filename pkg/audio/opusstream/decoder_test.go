package opusstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/haivivi/opusstream/pkg/audio/codec/backend"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/gopus"
)

func opusHead(version byte, channels byte, preSkip uint16, rate uint32, gain uint16) []byte {
	b := make([]byte, 19)
	copy(b, "OpusHead")
	b[8] = version
	b[9] = channels
	binary.LittleEndian.PutUint16(b[10:], preSkip)
	binary.LittleEndian.PutUint32(b[12:], rate)
	binary.LittleEndian.PutUint16(b[16:], gain)
	return b
}

func TestDecoderOpusHead(t *testing.T) {
	reg, fc := fakeRegistry(backend.Traits{})
	var formats []Format
	out := &chunkWriter{}
	cfg := Config{FrameSize: 960, Channels: 2, SampleRate: 48000, Application: ApplicationAudio}
	dec, err := NewDecoder(cfg, out, WithRegistry(reg), OnFormat(func(f Format) {
		formats = append(formats, f)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if err := dec.WritePacket(opusHead(2, 1, 312, 16000, 0)); err != nil {
		t.Fatalf("WritePacket() error = %v", err)
	}

	want := []Format{{
		Channels:   2,
		SampleRate: 48000,
		BitDepth:   16,
		Float:      false,
		Signed:     true,
		Version:    2,
		PreSkip:    312,
		Gain:       0,
	}}
	if diff := cmp.Diff(want, formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if len(out.chunks) != 0 {
		t.Errorf("OpusHead produced %d pcm chunks", len(out.chunks))
	}
	if len(fc.instances[0].decodeSizes) != 0 {
		t.Error("OpusHead reached the backend")
	}
}

func TestDecoderOpusTags(t *testing.T) {
	reg, fc := fakeRegistry(backend.Traits{})
	var tags [][]byte
	out := &chunkWriter{}
	dec, err := NewDecoder(testConfig(), out, WithRegistry(reg), OnTags(func(b []byte) {
		tags = append(tags, b)
	}))
	if err != nil {
		t.Fatal(err)
	}

	chunk := append([]byte("OpusTags"), 5, 0, 0, 0, 'g', 'i', 'z', 't', 'y', 0, 0, 0, 0)
	if err := dec.WritePacket(chunk); err != nil {
		t.Fatal(err)
	}
	// The exact magic alone is still a tags packet.
	if err := dec.WritePacket([]byte("OpusTags")); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{chunk, []byte("OpusTags")}
	if diff := cmp.Diff(want, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if len(out.chunks) != 0 || len(fc.instances[0].decodeSizes) != 0 {
		t.Error("OpusTags produced audio")
	}
}

func TestDecoderAudioAndFailures(t *testing.T) {
	reg, fc := fakeRegistry(backend.Traits{FrameSize: true})
	out := &chunkWriter{}
	cfg := testConfig()
	dec, err := NewDecoder(cfg, out, WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}

	good := append([]byte{fakeMarker}, pcmBytes(cfg.FrameBytes())...)
	packets := [][]byte{
		[]byte("Opus"),     // shorter than a signature: audio
		[]byte("OpusHeaX"), // wrong magic: audio
		good,
	}
	var decodeErrs int
	for _, p := range packets {
		err := dec.WritePacket(p)
		var de *DecodeError
		switch {
		case err == nil:
		case errors.As(err, &de) && errors.Is(err, ErrDecode):
			decodeErrs++
			if de.Size != len(p) {
				t.Errorf("DecodeError.Size = %d, want %d", de.Size, len(p))
			}
		default:
			t.Fatalf("WritePacket() error = %v", err)
		}
	}
	if decodeErrs != 2 {
		t.Errorf("decode errors = %d, want 2", decodeErrs)
	}
	if diff := cmp.Diff([][]byte{good[1:]}, out.chunks); diff != "" {
		t.Errorf("pcm mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{160, 160, 160}, fc.instances[0].decodeSizes); diff != "" {
		t.Errorf("frame size args (-want +got):\n%s", diff)
	}
}

func TestDecoderShortOpusHead(t *testing.T) {
	reg, _ := fakeRegistry(backend.Traits{})
	called := false
	dec, err := NewDecoder(testConfig(), &chunkWriter{}, WithRegistry(reg), OnFormat(func(Format) { called = true }))
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.WritePacket([]byte("OpusHead\x01")); !errors.Is(err, ErrDecode) {
		t.Errorf("WritePacket() error = %v, want ErrDecode", err)
	}
	if called {
		t.Error("OnFormat called for a truncated OpusHead")
	}
}

func TestRoundTripShape(t *testing.T) {
	cfg := testConfig()
	reg, _ := fakeRegistry(backend.Traits{})
	out := &chunkWriter{}
	dec, err := NewDecoder(cfg, out, WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	enc, err := NewEncoder(cfg, dec, WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}

	input := pcmBytes(7*cfg.FrameBytes() + 99)
	for _, c := range splitChunks(input, []int{13, 700}) {
		if _, err := enc.Write(c); err != nil {
			t.Fatal(err)
		}
	}
	enc.Close()
	dec.Close()

	if len(out.chunks) != 7 {
		t.Fatalf("decoded chunks = %d, want 7", len(out.chunks))
	}
	for i, c := range out.chunks {
		if len(c) != cfg.FrameBytes() {
			t.Errorf("chunk %d = %d bytes, want %d", i, len(c), cfg.FrameBytes())
		}
	}
}

func TestRoundTripGopus(t *testing.T) {
	cfg := Config{FrameSize: 960, Channels: 1, SampleRate: 48000, Application: ApplicationAudio}
	reg := backend.NewRegistry(gopus.Descriptor)
	out := &chunkWriter{}
	dec, err := NewDecoder(cfg, out, WithRegistry(reg))
	if err != nil {
		t.Fatalf("NewDecoder() error = %v", err)
	}
	defer dec.Close()
	enc, err := NewEncoder(cfg, dec, WithRegistry(reg))
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	defer enc.Close()
	if enc.Backend() != gopus.Name {
		t.Errorf("Backend() = %q, want %q", enc.Backend(), gopus.Name)
	}

	pcm := make([]byte, 3*cfg.FrameBytes())
	for i := 0; i < len(pcm)/2; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16((i%96-48)*200)))
	}
	if _, err := enc.Write(pcm); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(out.chunks) != 3 {
		t.Fatalf("decoded chunks = %d, want 3", len(out.chunks))
	}
	for i, c := range out.chunks {
		if len(c) != cfg.FrameBytes() {
			t.Errorf("chunk %d = %d bytes, want %d", i, len(c), cfg.FrameBytes())
		}
	}
}

func TestDecoderReadPackets(t *testing.T) {
	reg, _ := fakeRegistry(backend.Traits{})
	out := &chunkWriter{}
	cfg := testConfig()
	var sawFormat bool
	dec, err := NewDecoder(cfg, out, WithRegistry(reg), OnFormat(func(Format) { sawFormat = true }))
	if err != nil {
		t.Fatal(err)
	}
	frame := append([]byte{fakeMarker}, pcmBytes(cfg.FrameBytes())...)
	r := &slicePackets{packets: [][]byte{
		opusHead(1, 2, 3840, 16000, 0),
		[]byte("OpusTags\x00\x00\x00\x00"),
		frame,
		{0x01, 0x02},
		frame,
	}}
	failed, err := dec.ReadPackets(r)
	if err != nil {
		t.Fatalf("ReadPackets() error = %v", err)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if !sawFormat {
		t.Error("format event missing")
	}
	if got := bytes.Join(out.chunks, nil); len(got) != 2*cfg.FrameBytes() {
		t.Errorf("pcm = %d bytes, want %d", len(got), 2*cfg.FrameBytes())
	}
}
