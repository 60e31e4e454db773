// Package config resolves the stream settings of the opusstream CLI from
// defaults, a profile, the environment and command flags, in that order.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Env holds the settings read from the environment. Zero values mean unset.
type Env struct {
	Profile     string  `env:"OPUSSTREAM_PROFILE"`
	FrameSize   int     `env:"OPUSSTREAM_FRAME_SIZE"`
	Channels    int     `env:"OPUSSTREAM_CHANNELS"`
	SampleRate  int     `env:"OPUSSTREAM_SAMPLE_RATE"`
	Application string  `env:"OPUSSTREAM_APPLICATION"`
	Bitrate     int     `env:"OPUSSTREAM_BITRATE"`
	FEC         bool    `env:"OPUSSTREAM_FEC"`
	PacketLoss  float64 `env:"OPUSSTREAM_PACKET_LOSS"`
	Framing     string  `env:"OPUSSTREAM_FRAMING"`
	LibPath     string  `env:"OPUS_LIB_PATH"`
}

// LoadEnv loads each existing dotenv file into the process environment,
// without overriding variables already set, and then reads Env from it.
func LoadEnv(ctx context.Context, dotenvFiles ...string) (*Env, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return ProcessEnv(ctx, envconfig.OsLookuper())
}

// ProcessEnv reads Env through l.
func ProcessEnv(ctx context.Context, l envconfig.Lookuper) (*Env, error) {
	var e Env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &e,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &e, nil
}
