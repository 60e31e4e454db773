package pcm

import (
	"io"

	"github.com/hajimehoshi/go-mp3"
)

type mp3Source struct {
	*mp3.Decoder
}

// NewMP3Source decodes an MP3 stream. go-mp3 always produces stereo s16le.
func NewMP3Source(r io.Reader) (Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return mp3Source{Decoder: dec}, nil
}

func (s mp3Source) Format() Format {
	return Format{SampleRate: s.SampleRate(), Channels: 2}
}
