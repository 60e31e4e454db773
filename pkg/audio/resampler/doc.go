// Package resampler converts 16-bit PCM streams between sample rates and
// channel counts.
//
// Rate conversion uses github.com/tphakala/go-audio-resampling. Channel
// conversion happens before resampling, so the resampler always runs at the
// destination channel count.
//
//	src := pcm.Format{SampleRate: 44100, Channels: 2}
//	r, err := resampler.New(file, src, pcm.L16Mono48K)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	io.Copy(out, r)
package resampler
