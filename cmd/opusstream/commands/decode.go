package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/pkg/audio/codec/ogg"
	"github.com/haivivi/opusstream/pkg/audio/codec/packetio"
	"github.com/haivivi/opusstream/pkg/audio/opusstream"
	"github.com/haivivi/opusstream/pkg/audio/pcm"
	"github.com/haivivi/opusstream/pkg/cli"
)

var (
	decodeStream streamFlags
	decodeInput  string
	decodeOutput string
	decodeWAV    bool
	decodeInfo   string
	decodeJitter int
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode framed Opus packets into PCM",
	Long: `Decode reads Opus packets and writes 16-bit PCM in the stream format.

OpusHead and OpusTags packets, as found at the start of an Ogg stream, are
not decoded: their contents are reported on stderr after decoding (see
--info). Packets that fail to decode are skipped and counted.`,
	Example: `  opusstream decode -i speech.ogg --framing ogg --wav -o speech.wav
  opusstream decode --rate 16000 < audio.opus > audio.pcm`,
	Args: cobra.NoArgs,
	RunE: runDecode,
}

func init() {
	decodeStream.register(decodeCmd)
	fl := decodeCmd.Flags()
	fl.StringVarP(&decodeInput, "input", "i", "-", "input file, - for stdin")
	fl.StringVarP(&decodeOutput, "output", "o", "-", "output file, - for stdout")
	fl.BoolVar(&decodeWAV, "wav", false, "write a WAV file instead of raw s16le (needs -o)")
	fl.StringVar(&decodeInfo, "info", "yaml", "stream info format on stderr: yaml, json or none")
	fl.IntVar(&decodeJitter, "jitter", 0, "rtp only: reorder up to this many packets by sequence number")
	rootCmd.AddCommand(decodeCmd)
}

// decodeResult is printed after decoding.
type decodeResult struct {
	Backend string             `json:"backend" yaml:"backend"`
	Packets int                `json:"packets" yaml:"packets"`
	Failed  int                `json:"failed" yaml:"failed"`
	Lost    int                `json:"lost,omitempty" yaml:"lost,omitempty"`
	Late    int                `json:"late,omitempty" yaml:"late,omitempty"`
	Bytes   int64              `json:"bytes" yaml:"bytes"`
	Format  *opusstream.Format `json:"format,omitempty" yaml:"format,omitempty"`
	Tags    *ogg.Tags          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// countingReader counts the packets read through it.
type countingReader struct {
	packetio.Reader
	n int
}

func (r *countingReader) ReadPacket() ([]byte, error) {
	p, err := r.Reader.ReadPacket()
	if err == nil {
		r.n++
	}
	return p, err
}

// countingWriter counts the PCM bytes written through it.
type countingWriter struct {
	io.Writer
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := w.Writer.Write(p)
	w.n += int64(n)
	return n, err
}

func runDecode(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd.Context())
	if err != nil {
		return err
	}
	if err := decodeStream.apply(cmd, &s); err != nil {
		return err
	}
	if err := s.Stream.Validate(); err != nil {
		return err
	}
	if decodeWAV && isStdio(decodeOutput) {
		return errors.New("--wav needs an output file")
	}
	applyLibPath(s)

	var in io.Reader = cmd.InOrStdin()
	if !isStdio(decodeInput) {
		f, err := os.Open(decodeInput)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	pr, err := packetio.NewReader(s.Framing, in)
	if err != nil {
		return err
	}
	var jitter *packetio.JitterReader
	if rr, ok := pr.(*packetio.RTPReader); ok && decodeJitter > 0 {
		jitter = packetio.NewJitterReader(rr, decodeJitter)
		pr = jitter
	}

	out := &countingWriter{Writer: cmd.OutOrStdout()}
	var wav *pcm.WAVWriter
	if !isStdio(decodeOutput) {
		f, err := createOutput(decodeOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out.Writer = f
		if decodeWAV {
			wav, err = pcm.NewWAVWriter(f, pcm.Format{SampleRate: s.Stream.SampleRate, Channels: s.Stream.Channels})
			if err != nil {
				return err
			}
			out.Writer = wav
		}
	}

	var res decodeResult
	dec, err := opusstream.NewDecoder(s.Stream, out,
		opusstream.WithLogger(slog.Default()),
		opusstream.OnFormat(func(f opusstream.Format) { res.Format = &f }),
		opusstream.OnTags(func(b []byte) {
			tags, err := ogg.ParseTags(b)
			if err != nil {
				slog.Warn("decode: bad OpusTags", "error", err)
				return
			}
			res.Tags = &tags
		}),
	)
	if err != nil {
		return err
	}
	defer dec.Destroy()

	cr := &countingReader{Reader: pr}
	res.Failed, err = dec.ReadPackets(cr)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	res.Backend = dec.Backend()
	res.Packets = cr.n
	res.Bytes = out.n
	if jitter != nil {
		res.Lost, res.Late = jitter.Lost(), jitter.Late()
	}
	if err := dec.Close(); err != nil {
		return err
	}
	if wav != nil {
		if err := wav.Close(); err != nil {
			return err
		}
	}

	if res.Failed > 0 {
		cli.PrintWarning("%d of %d packets failed to decode", res.Failed, res.Packets)
	}
	if decodeInfo == "none" {
		return nil
	}
	return cli.Output(res, cli.OutputOptions{
		Format: cli.OutputFormat(decodeInfo),
		Writer: cmd.ErrOrStderr(),
	})
}
