package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
)

// Config holds the named stream profiles.
type Config struct {
	// CurrentProfile is used when no profile is named.
	CurrentProfile string `yaml:"current_profile,omitempty"`

	Profiles map[string]*Profile `yaml:"profiles,omitempty"`

	configPath string
}

// Profile is a named set of stream settings. Zero fields fall back to the
// command defaults.
type Profile struct {
	Name string `yaml:"name" json:"name"`

	FrameSize   int    `yaml:"frame_size,omitempty" json:"frame_size,omitempty"`
	Channels    int    `yaml:"channels,omitempty" json:"channels,omitempty"`
	SampleRate  int    `yaml:"sample_rate,omitempty" json:"sample_rate,omitempty"`
	Application string `yaml:"application,omitempty" json:"application,omitempty"`

	// Bitrate in bits per second, clamped by the stream.
	Bitrate    int     `yaml:"bitrate,omitempty" json:"bitrate,omitempty"`
	FEC        bool    `yaml:"fec,omitempty" json:"fec,omitempty"`
	PacketLoss float64 `yaml:"packet_loss,omitempty" json:"packet_loss,omitempty"`

	// Framing is a packetio format name.
	Framing string `yaml:"framing,omitempty" json:"framing,omitempty"`
	// LibPath overrides the libopus shared library location.
	LibPath string `yaml:"lib_path,omitempty" json:"lib_path,omitempty"`
}

// LoadConfig reads the profile file at path, or ~/.opusstream/config.yaml
// when path is empty. A missing file yields an empty config; it is written
// on the first Save.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		paths, err := NewPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = paths.ConfigFile()
	}

	cfg := &Config{
		Profiles:   make(map[string]*Profile),
		configPath: path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	for name, p := range cfg.Profiles {
		p.Name = name
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration to disk, creating its directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// SetProfile adds or replaces a profile and saves.
func (c *Config) SetProfile(name string, p *Profile) error {
	p.Name = name
	c.Profiles[name] = p
	return c.Save()
}

// DeleteProfile removes a profile and saves.
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(c.Profiles, name)
	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}
	return c.Save()
}

// UseProfile sets the current profile and saves.
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	c.CurrentProfile = name
	return c.Save()
}

// GetProfile returns a profile by name.
func (c *Config) GetProfile(name string) (*Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// ResolveProfile returns the named profile, the current profile when name
// is empty, or nil with no error when neither is set.
func (c *Config) ResolveProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}
	if name == "" {
		return nil, nil
	}
	return c.GetProfile(name)
}

// ListProfiles returns the profile names in sorted order.
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
