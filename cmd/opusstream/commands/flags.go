package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/cmd/opusstream/internal/config"
)

// streamFlags are the stream settings shared by encode and decode.
type streamFlags struct {
	frameSize   int
	channels    int
	sampleRate  int
	application string
	framing     string
}

func (f *streamFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.frameSize, "frame-size", 0, "samples per channel in one frame")
	fl.IntVar(&f.channels, "channels", 0, "stream channel count")
	fl.IntVar(&f.sampleRate, "rate", 0, "stream sample rate in Hz")
	fl.StringVar(&f.application, "application", "", "VOIP, AUDIO or RESTRICTED_LOWDELAY")
	fl.StringVar(&f.framing, "framing", "", "packet framing: lenprefix, ogg, rtp or msgpack")
}

// apply overrides s with the flags set on cmd.
func (f *streamFlags) apply(cmd *cobra.Command, s *config.Settings) error {
	fl := cmd.Flags()
	if fl.Changed("frame-size") {
		s.Stream.FrameSize = f.frameSize
	}
	if fl.Changed("channels") {
		s.Stream.Channels = f.channels
	}
	if fl.Changed("rate") {
		s.Stream.SampleRate = f.sampleRate
	}
	if fl.Changed("application") {
		if err := s.SetApplication(f.application); err != nil {
			return err
		}
	}
	if fl.Changed("framing") {
		if err := s.SetFraming(f.framing); err != nil {
			return err
		}
	}
	return nil
}
