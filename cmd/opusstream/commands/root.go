package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haivivi/opusstream/cmd/opusstream/internal/config"
	"github.com/haivivi/opusstream/pkg/audio/codec/backend/purego"
	"github.com/haivivi/opusstream/pkg/cli"
)

var (
	// Global flags
	verbose     bool
	profileName string
	configFile  string
)

var rootCmd = &cobra.Command{
	Use:   "opusstream",
	Short: "Stream PCM to Opus packets and back",
	Long: `opusstream - encode and decode Opus packet streams.

The codec is provided by the first backend that loads, in this order:
  libopus   cgo binding (build with -tags opus)
  hraban    gopkg.in/hraban/opus.v2 (build with -tags opus)
  purego    libopus shared library loaded at runtime (OPUS_LIB_PATH)
  gopus     pure Go, always available

Stream settings come from defaults, then the current profile
(~/.opusstream/config.yaml), then OPUSSTREAM_* variables (also read from
~/.opusstream/.env and ./.env), then flags.

Examples:
  opusstream encode -i speech.wav -o speech.ogg --framing ogg
  opusstream decode -i speech.ogg --framing ogg --wav -o speech.wav
  opusstream backends --refresh`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		cli.Stderr = cmd.ErrOrStderr()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (default: current profile)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "profile file (default: ~/.opusstream/config.yaml)")
}

// loadConfig returns the profile file named by --config or the default one.
func loadConfig() (*cli.Config, error) {
	return cli.LoadConfig(configFile)
}

// resolveSettings merges defaults, the selected profile and the environment.
// Command flags are applied by the caller.
func resolveSettings(ctx context.Context) (config.Settings, error) {
	s := config.Defaults()

	var dotenv []string
	if paths, err := cli.NewPaths(); err == nil {
		dotenv = append(dotenv, paths.EnvFile())
	}
	dotenv = append(dotenv, ".env")
	env, err := config.LoadEnv(ctx, dotenv...)
	if err != nil {
		return s, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return s, err
	}
	name := profileName
	if name == "" {
		name = env.Profile
	}
	p, err := cfg.ResolveProfile(name)
	if err != nil {
		return s, err
	}
	if err := s.ApplyProfile(p); err != nil {
		return s, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if err := s.ApplyEnv(env); err != nil {
		return s, err
	}
	return s, nil
}

// applyLibPath exports the libopus location for the purego backend, which
// reads it on its first load.
func applyLibPath(s config.Settings) {
	if s.LibPath != "" {
		os.Setenv(purego.EnvLibPath, s.LibPath)
	}
}

// isStdio reports whether path names stdin or stdout.
func isStdio(path string) bool {
	return path == "" || path == "-"
}

// createOutput creates path and its parent directory.
func createOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}
