package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/cmd/opusstream/internal/build"
	"github.com/haivivi/opusstream/cmd/opusstream/internal/config"
	"github.com/haivivi/opusstream/pkg/audio/codec/packetio"
	"github.com/haivivi/opusstream/pkg/audio/opusstream"
	"github.com/haivivi/opusstream/pkg/audio/pcm"
	"github.com/haivivi/opusstream/pkg/audio/resampler"
	"github.com/haivivi/opusstream/pkg/cli"
)

var (
	encodeStream        streamFlags
	encodeInput         string
	encodeOutput        string
	encodeInputRate     int
	encodeInputChannels int
	encodeBitrate       int
	encodeFEC           bool
	encodePacketLoss    float64
	encodeTone          float64
	encodeToneDuration  time.Duration
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode PCM into framed Opus packets",
	Long: `Encode reads 16-bit PCM and writes one Opus packet per frame.

The input type follows the file extension: .wav, .mp3, .ogg (Vorbis), or
raw s16le for anything else and for stdin. Raw input is taken to be in the
stream format unless --input-rate or --input-channels say otherwise. Input
in another format is resampled and remixed to the stream format.

With --tone the input is a generated sine wave instead of a file.

A trailing partial frame is dropped.`,
	Example: `  opusstream encode -i speech.wav -o speech.ogg --framing ogg --bitrate 24000
  cat audio.pcm | opusstream encode --rate 16000 --application voip > audio.opus
  opusstream encode --tone 440 --tone-duration 3s -o a440.ogg --framing ogg`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	encodeStream.register(encodeCmd)
	fl := encodeCmd.Flags()
	fl.StringVarP(&encodeInput, "input", "i", "-", "input file, - for stdin")
	fl.StringVarP(&encodeOutput, "output", "o", "-", "output file, - for stdout")
	fl.IntVar(&encodeInputRate, "input-rate", 0, "sample rate of raw input (default: stream rate)")
	fl.IntVar(&encodeInputChannels, "input-channels", 0, "channel count of raw input (default: stream channels)")
	fl.IntVar(&encodeBitrate, "bitrate", 0, "encoder bitrate in bits per second")
	fl.BoolVar(&encodeFEC, "fec", false, "enable in-band forward error correction")
	fl.Float64Var(&encodePacketLoss, "packet-loss", 0, "expected packet loss as a fraction in [0, 1]")
	fl.Float64Var(&encodeTone, "tone", 0, "encode a sine wave of this frequency in Hz instead of the input")
	fl.DurationVar(&encodeToneDuration, "tone-duration", time.Second, "length of the --tone input")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd.Context())
	if err != nil {
		return err
	}
	if err := encodeStream.apply(cmd, &s); err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("bitrate") {
		s.Bitrate = encodeBitrate
	}
	if fl.Changed("fec") {
		s.FEC = encodeFEC
	}
	if fl.Changed("packet-loss") {
		s.PacketLoss = encodePacketLoss
	}
	if err := s.Stream.Validate(); err != nil {
		return err
	}
	applyLibPath(s)

	target := pcm.Format{SampleRate: s.Stream.SampleRate, Channels: s.Stream.Channels}
	raw := target
	if encodeInputRate > 0 {
		raw.SampleRate = encodeInputRate
	}
	if encodeInputChannels > 0 {
		raw.Channels = encodeInputChannels
	}
	src, err := openInput(cmd, raw)
	if err != nil {
		return err
	}
	defer src.Close()

	var in io.Reader = src
	if src.Format() != target {
		slog.Debug("encode: converting input", "from", src.Format(), "to", target)
		rs, err := resampler.New(src, src.Format(), target)
		if err != nil {
			return err
		}
		defer rs.Close()
		in = rs
	}

	out := cmd.OutOrStdout()
	if !isStdio(encodeOutput) {
		f, err := createOutput(encodeOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	pw, err := packetio.NewWriter(s.Framing, out, packetio.StreamInfo{
		Channels:   s.Stream.Channels,
		SampleRate: s.Stream.SampleRate,
		Vendor:     build.Vendor(),
	})
	if err != nil {
		return err
	}

	enc, err := opusstream.NewEncoder(s.Stream, pw, opusstream.WithLogger(slog.Default()))
	if err != nil {
		return err
	}
	defer enc.Destroy()
	configureEncoder(enc, s)

	start := time.Now()
	n, err := enc.ReadFrom(in)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	dropped := enc.Buffered()
	packets := enc.Packets()
	if err := enc.Close(); err != nil {
		return err
	}
	if err := pw.Close(); err != nil {
		return err
	}

	cli.PrintSuccess("encoded %s into %d %s packets with %s in %s",
		cli.FormatDuration(target.Duration(n)), packets, s.Framing, enc.Backend(),
		cli.FormatDuration(time.Since(start)))
	if dropped > 0 {
		cli.PrintWarning("dropped %d trailing bytes, less than one frame", dropped)
	}
	return nil
}

// openInput opens the encode input, or a generated tone when --tone is set.
func openInput(cmd *cobra.Command, raw pcm.Format) (pcm.SourceCloser, error) {
	if !cmd.Flags().Changed("tone") {
		return pcm.OpenFile(encodeInput, raw)
	}
	if cmd.Flags().Changed("input") {
		return nil, fmt.Errorf("encode: --tone and --input are exclusive")
	}
	src, err := pcm.NewToneSource(encodeTone, encodeToneDuration, raw)
	if err != nil {
		return nil, err
	}
	return nopCloser{src}, nil
}

type nopCloser struct{ pcm.Source }

func (nopCloser) Close() error { return nil }

// configureEncoder applies the encoder controls. A backend that rejects one
// is reported and the stream continues with its default.
func configureEncoder(enc *opusstream.Encoder, s config.Settings) {
	warn := func(what string, err error) {
		if err != nil {
			cli.PrintWarning("%s not applied: %v", what, err)
		}
	}
	if s.Bitrate > 0 {
		warn("bitrate", enc.SetBitrate(s.Bitrate))
	}
	if s.FEC {
		warn("fec", enc.SetFEC(true))
	}
	if s.PacketLoss > 0 {
		warn("packet loss", enc.SetPacketLossPercentage(s.PacketLoss))
	}
}
