package opusstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	opusHeadMagic = []byte("OpusHead")
	opusTagsMagic = []byte("OpusTags")
)

// opusHeadMinSize covers every field read from an OpusHead packet.
const opusHeadMinSize = 18

// Format describes the PCM produced by a Decoder. It is reported when an
// OpusHead packet arrives. Channels and SampleRate come from the stream
// Config; Version, PreSkip and Gain come from the packet.
type Format struct {
	Channels   int  `yaml:"channels" json:"channels"`
	SampleRate int  `yaml:"sample_rate" json:"sample_rate"`
	BitDepth   int  `yaml:"bit_depth" json:"bit_depth"`
	Float      bool `yaml:"float" json:"float"`
	Signed     bool `yaml:"signed" json:"signed"`

	Version int `yaml:"version" json:"version"`
	PreSkip int `yaml:"pre_skip" json:"pre_skip"`
	Gain    int `yaml:"gain" json:"gain"`
}

// PacketReader yields one packet per call and io.EOF at the end.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// Decoder turns Opus packets into PCM. It implements PacketWriter, so an
// Encoder can write straight into it.
type Decoder struct {
	*stream

	out      io.Writer
	onFormat func(Format)
	onTags   func([]byte)
}

// NewDecoder creates a decoder that writes PCM to out. Use OnFormat and
// OnTags to observe the metadata packets.
func NewDecoder(cfg Config, out io.Writer, opts ...Option) (*Decoder, error) {
	if out == nil {
		return nil, errors.New("opusstream: nil pcm writer")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	s, err := newStream(cfg, &o)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		stream:   s,
		out:      out,
		onFormat: o.onFormat,
		onTags:   o.onTags,
	}, nil
}

// WritePacket handles one chunk. OpusHead and OpusTags packets produce
// events and no audio; anything else is decoded as one audio packet. A
// decode failure is returned as *DecodeError and does not end the stream.
func (d *Decoder) WritePacket(chunk []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.inst == nil {
		return ErrClosed
	}

	switch {
	case bytes.HasPrefix(chunk, opusHeadMagic):
		return d.head(chunk)
	case bytes.HasPrefix(chunk, opusTagsMagic):
		if d.onTags != nil {
			d.onTags(bytes.Clone(chunk))
		}
		return nil
	}

	pcm, err := d.inst.Decode(chunk, d.frameSizeArg())
	if err != nil {
		return &DecodeError{Size: len(chunk), Err: err}
	}
	if _, err := d.out.Write(pcm); err != nil {
		return fmt.Errorf("opusstream: write pcm: %w", err)
	}
	return nil
}

func (d *Decoder) head(chunk []byte) error {
	if len(chunk) < opusHeadMinSize {
		return &DecodeError{Size: len(chunk), Err: fmt.Errorf("short OpusHead: %d bytes", len(chunk))}
	}
	f := Format{
		Channels:   d.cfg.Channels,
		SampleRate: d.cfg.SampleRate,
		BitDepth:   16,
		Float:      false,
		Signed:     true,
		Version:    int(chunk[8]),
		PreSkip:    int(binary.LittleEndian.Uint16(chunk[10:12])),
		Gain:       int(binary.LittleEndian.Uint16(chunk[16:18])),
	}
	d.log.Debug("opusstream: format", "version", f.Version, "pre_skip", f.PreSkip, "gain", f.Gain)
	if d.onFormat != nil {
		d.onFormat(f)
	}
	return nil
}

// ReadPackets feeds every packet from r through WritePacket until io.EOF.
// Decode failures are skipped and counted; any other error stops the loop.
func (d *Decoder) ReadPackets(r PacketReader) (int, error) {
	failed := 0
	for {
		p, err := r.ReadPacket()
		if err == io.EOF {
			return failed, nil
		}
		if err != nil {
			return failed, err
		}
		if err := d.WritePacket(p); err != nil {
			if !errors.Is(err, ErrDecode) {
				return failed, err
			}
			failed++
			d.log.Debug("opusstream: skip packet", "error", err)
		}
	}
}

// Close ends the stream. Close and Destroy may be called any number of
// times.
func (d *Decoder) Close() error {
	d.finish("close")
	return nil
}

// Destroy aborts the stream. It shares the cleanup of Close.
func (d *Decoder) Destroy() {
	d.finish("destroy")
}

func (d *Decoder) finish(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleanupLocked(reason)
}
