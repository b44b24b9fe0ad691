package config

import (
	_ "embed"
	"fmt"

	"github.com/spf13/afero"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfig []byte

// ErrInvalidConfig is returned when a configuration document is unusable.
var ErrInvalidConfig = zerr.New("invalid configuration")

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		// The embedded document is part of the binary; failing here is a build defect.
		panic("embedded defaults.yaml is invalid: " + err.Error())
	}
	return cfg
}

// LoadConfig reads the configuration at configFile, or returns the built-in
// defaults when configFile is empty.
func LoadConfig(fs afero.Fs, configFile string) (Config, error) {
	if configFile == "" {
		return Default(), nil
	}

	raw, err := afero.ReadFile(fs, configFile)
	if err != nil {
		return Config{}, zerr.Wrap(err, "failed to read config "+configFile)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML configuration document.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the installers rely on.
func (c Config) Validate() error {
	if len(c.Dependencies.Base) == 0 {
		return fmt.Errorf("%w: no dependencies listed", ErrInvalidConfig)
	}
	if len(c.Links) == 0 {
		return fmt.Errorf("%w: no links listed", ErrInvalidConfig)
	}

	seen := make(map[string]string)
	for _, l := range c.Links {
		if l.Source == "" || l.Dest == "" {
			return fmt.Errorf("%w: link %q needs both source and dest", ErrInvalidConfig, l.Name)
		}
		if other, ok := seen[l.Dest]; ok {
			return fmt.Errorf("%w: links %q and %q share destination %s", ErrInvalidConfig, other, l.Name, l.Dest)
		}
		seen[l.Dest] = l.Name
	}

	if c.Shell.Binary == "" || c.Shell.MarkerDir == "" || c.Shell.RCFile == "" {
		return fmt.Errorf("%w: shell binary, marker_dir and rc_file are required", ErrInvalidConfig)
	}
	if len(c.Shell.InstallerURL) == 0 {
		return fmt.Errorf("%w: at least one shell installer url is required", ErrInvalidConfig)
	}
	return nil
}

// ShellRCLink returns the link flagged as the shell startup file, if any.
func (c Config) ShellRCLink() (Link, bool) {
	for _, l := range c.Links {
		if l.ShellRC {
			return l, true
		}
	}
	return Link{}, false
}
