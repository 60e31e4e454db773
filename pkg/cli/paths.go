package cli

import (
	"os"
	"path/filepath"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".opusstream"
	// DefaultConfigFile is the profile file name.
	DefaultConfigFile = "config.yaml"
	// DefaultEnvFile is loaded into the environment before flags are parsed.
	DefaultEnvFile = ".env"
)

// Paths locates the opusstream files in a home directory.
type Paths struct {
	HomeDir string
}

// NewPaths returns Paths for the current user.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns ~/.opusstream.
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns ~/.opusstream/config.yaml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// EnvFile returns ~/.opusstream/.env.
func (p *Paths) EnvFile() string {
	return filepath.Join(p.BaseDir(), DefaultEnvFile)
}

// EnsureBaseDir creates the base directory if it doesn't exist.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}
