package commands

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestEnv points HOME and --config at a temp dir so no user files are
// read.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, k := range []string{"OPUSSTREAM_PROFILE", "OPUSSTREAM_FRAMING", "OPUSSTREAM_SAMPLE_RATE", "OPUSSTREAM_CHANNELS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return filepath.Join(dir, "config.yaml")
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errBuf bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	resetFlags(rootCmd)
	return out.String(), errBuf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		f.Value.Set(f.DefValue)
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeSine(t *testing.T, path string, rate, samples int) {
	t.Helper()
	b := make([]byte, samples*2)
	for i := range samples {
		v := int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)
	stdout, _, err := runCmd(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "opusstream dev") {
		t.Fatalf("expected 'opusstream dev', got: %s", stdout)
	}

	stdout, _, err = runCmd(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `"version"`) {
		t.Fatalf("expected JSON, got: %s", stdout)
	}
}

func TestBackends(t *testing.T) {
	cfg := setupTestEnv(t)
	stdout, _, err := runCmd(t, "backends", "--config", cfg, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var statuses []backendStatus
	if err := json.Unmarshal([]byte(stdout), &statuses); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	var names []string
	selected := 0
	for _, s := range statuses {
		names = append(names, s.Name)
		if s.Status == "selected" {
			selected++
		}
	}
	if got := strings.Join(names, ","); got != "libopus,hraban,purego,gopus" {
		t.Errorf("backend order = %s", got)
	}
	if selected != 1 {
		t.Errorf("%d backends selected, want 1", selected)
	}

	stdout, _, err = runCmd(t, "backends", "--config", cfg, "--refresh")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "Opus backends") || !strings.Contains(stdout, "selected") {
		t.Errorf("table output = %s", stdout)
	}
}

func TestEncodeDecodeOgg(t *testing.T) {
	cfg := setupTestEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	enc := filepath.Join(dir, "out.ogg")
	dec := filepath.Join(dir, "out.pcm")
	writeSine(t, in, 48000, 48000+100)

	_, stderr, err := runCmd(t, "encode", "--config", cfg, "-i", in, "-o", enc, "--framing", "ogg", "--bitrate", "32000")
	if err != nil {
		t.Fatalf("encode: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "50 ogg packets") || !strings.Contains(stderr, "dropped 200 trailing bytes") {
		t.Errorf("encode stderr = %s", stderr)
	}

	_, stderr, err = runCmd(t, "decode", "--config", cfg, "-i", enc, "-o", dec, "--framing", "ogg", "--info", "json")
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, stderr)
	}
	pcm, err := os.ReadFile(dec)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) != 50*960*2 {
		t.Errorf("decoded %d bytes, want %d", len(pcm), 50*960*2)
	}
	for _, want := range []string{`"pre_skip": 3840`, `"vendor": "opusstream dev"`, `"packets": 52`, `"failed": 0`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("decode info missing %s:\n%s", want, stderr)
		}
	}
}

func TestEncodeResamples(t *testing.T) {
	cfg := setupTestEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	out := filepath.Join(dir, "out.opus")
	writeSine(t, in, 16000, 16000)

	_, stderr, err := runCmd(t, "encode", "--config", cfg, "-i", in, "-o", out, "--input-rate", "16000", "--framing", "msgpack")
	if err != nil {
		t.Fatalf("encode: %v\n%s", err, stderr)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("no packets written")
	}
}

func TestEncodeBadFraming(t *testing.T) {
	cfg := setupTestEnv(t)
	_, _, err := runCmd(t, "encode", "--config", cfg, "--framing", "webm")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("err = %v, want unknown format", err)
	}
}

func TestDecodeWAVNeedsFile(t *testing.T) {
	cfg := setupTestEnv(t)
	_, _, err := runCmd(t, "decode", "--config", cfg, "--wav")
	if err == nil {
		t.Error("--wav to stdout accepted")
	}
}

func TestProfileCommands(t *testing.T) {
	cfg := setupTestEnv(t)
	pf := filepath.Join(t.TempDir(), "voice.yaml")
	os.WriteFile(pf, []byte("sample_rate: 16000\napplication: VOIP\nframing: rtp\n"), 0644)

	if _, stderr, err := runCmd(t, "profile", "set", "voice", pf, "--config", cfg); err != nil {
		t.Fatalf("set: %v\n%s", err, stderr)
	}
	if _, _, err := runCmd(t, "profile", "use", "voice", "--config", cfg); err != nil {
		t.Fatalf("use: %v", err)
	}

	stdout, _, err := runCmd(t, "profile", "list", "--config", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != "* voice" {
		t.Errorf("list = %q", stdout)
	}

	stdout, _, err = runCmd(t, "profile", "show", "--config", cfg, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"sample_rate": 16000`, `"application": 2048`, `"framing": "rtp"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("show missing %s:\n%s", want, stdout)
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("application: music\n"), 0644)
	if _, _, err := runCmd(t, "profile", "set", "bad", bad, "--config", cfg); err == nil {
		t.Error("profile with unknown application accepted")
	}

	if _, _, err := runCmd(t, "profile", "delete", "voice", "--config", cfg); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := runCmd(t, "profile", "delete", "voice", "--config", cfg); err == nil {
		t.Error("second delete succeeded")
	}
}

func TestEncodeDecodeRTPJitter(t *testing.T) {
	cfg := setupTestEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	enc := filepath.Join(dir, "out.rtp")
	dec := filepath.Join(dir, "out.pcm")
	writeSine(t, in, 48000, 10*960)

	if _, stderr, err := runCmd(t, "encode", "--config", cfg, "-i", in, "-o", enc, "--framing", "rtp"); err != nil {
		t.Fatalf("encode: %v\n%s", err, stderr)
	}
	_, stderr, err := runCmd(t, "decode", "--config", cfg, "-i", enc, "-o", dec, "--framing", "rtp", "--jitter", "4")
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, stderr)
	}
	pcm, err := os.ReadFile(dec)
	if err != nil {
		t.Fatal(err)
	}
	if len(pcm) != 10*960*2 {
		t.Errorf("decoded %d bytes, want %d", len(pcm), 10*960*2)
	}
	if !strings.Contains(stderr, "packets: 10") || strings.Contains(stderr, "lost:") {
		t.Errorf("decode info = %s", stderr)
	}
}

func TestEncodeTone(t *testing.T) {
	cfg := setupTestEnv(t)
	out := filepath.Join(t.TempDir(), "tone.opus")

	_, stderr, err := runCmd(t, "encode", "--config", cfg, "--tone", "440", "--tone-duration", "200ms", "-o", out)
	if err != nil {
		t.Fatalf("encode: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "10 lenprefix packets") {
		t.Errorf("encode output = %s", stderr)
	}

	_, _, err = runCmd(t, "encode", "--config", cfg, "--tone", "440", "-i", "x.wav", "-o", out)
	if err == nil {
		t.Error("encode --tone -i = nil error")
	}
}
