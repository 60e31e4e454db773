package pcm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned by OpenFile when a raw file has no Format.
var ErrUnknownFormat = errors.New("pcm: unknown format")

// Source is a stream of s16le PCM in a known Format.
type Source interface {
	io.Reader
	Format() Format
}

// SourceCloser is a Source that owns an open file.
type SourceCloser interface {
	Source
	io.Closer
}

type rawSource struct {
	io.Reader
	f Format
}

func (s rawSource) Format() Format { return s.f }

// NewRawSource treats r as s16le PCM in format f.
func NewRawSource(r io.Reader, f Format) (Source, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return rawSource{Reader: r, f: f}, nil
}

type fileSource struct {
	Source
	file *os.File
}

func (s *fileSource) Close() error { return s.file.Close() }

// OpenFile opens an audio file as a Source, choosing the decoder from the
// extension: .wav, .mp3, .ogg and .oga are decoded, anything else is read as
// raw PCM in format raw. The path "-" reads raw PCM from stdin.
func OpenFile(path string, raw Format) (SourceCloser, error) {
	if path == "-" {
		if raw.Validate() != nil {
			return nil, fmt.Errorf("%w: stdin needs a sample rate and channel count", ErrUnknownFormat)
		}
		src, _ := NewRawSource(bufio.NewReader(os.Stdin), raw)
		return &fileSource{Source: src, file: os.Stdin}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := newSource(f, strings.ToLower(filepath.Ext(path)), raw)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pcm: open %s: %w", path, err)
	}
	return &fileSource{Source: src, file: f}, nil
}

func newSource(f *os.File, ext string, raw Format) (Source, error) {
	switch ext {
	case ".wav", ".wave":
		return NewWAVSource(f)
	case ".mp3":
		return NewMP3Source(f)
	case ".ogg", ".oga":
		return NewVorbisSource(f)
	}
	if raw.Validate() != nil {
		return nil, fmt.Errorf("%w: raw pcm needs a sample rate and channel count", ErrUnknownFormat)
	}
	return NewRawSource(bufio.NewReader(f), raw)
}
