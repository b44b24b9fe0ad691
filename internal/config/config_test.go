package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input string
		want  Platform
	}{
		{"ubuntu", Ubuntu},
		{"Debian", Ubuntu},
		{"arch", Arch},
		{"archlinux", Arch},
		{"macos", MacOS},
		{"MAC", MacOS},
		{" windows ", Windows},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlatform_Unknown(t *testing.T) {
	_, err := ParsePlatform("solaris")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
	assert.Contains(t, err.Error(), "solaris")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"zsh", "tmux", "neovim", "i3", "curl", "git", "wget", "picom"}, cfg.Dependencies.Base)
	require.Len(t, cfg.Links, 5)

	rc, ok := cfg.ShellRCLink()
	require.True(t, ok)
	assert.Equal(t, "dotfiles/zshrc", rc.Source)
	assert.Equal(t, ".zshrc", rc.Dest)

	assert.Equal(t, ".oh-my-zsh", cfg.Shell.MarkerDir)
	assert.Len(t, cfg.Shell.InstallerURL, 2)
	assert.Contains(t, cfg.PathLines.Static, `export PATH="$HOME/.local/bin:$PATH"`)
}

func TestPackagesFor(t *testing.T) {
	deps := Default().Dependencies

	t.Run("non_arch_uses_base_set", func(t *testing.T) {
		for _, p := range []Platform{Ubuntu, MacOS, Windows} {
			assert.Equal(t, deps.Base, deps.PackagesFor(p), string(p))
		}
	})

	t.Run("arch_replaces_i3_and_adds_toolchain", func(t *testing.T) {
		pkgs := deps.PackagesFor(Arch)
		assert.NotContains(t, pkgs, "i3")
		assert.Subset(t, pkgs, []string{"i3-wm", "i3status", "i3lock", "ruby", "ruby-rake", "gcc"})
		assert.Equal(t, "zsh", pkgs[0])
	})

	t.Run("result_is_a_copy", func(t *testing.T) {
		pkgs := deps.PackagesFor(Ubuntu)
		pkgs[0] = "changed"
		assert.Equal(t, "zsh", deps.Base[0])
	})
}

func TestBinaryFor(t *testing.T) {
	deps := Default().Dependencies
	assert.Equal(t, "nvim", deps.BinaryFor("neovim"))
	assert.Equal(t, "tmux", deps.BinaryFor("tmux"))
}

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("empty_path_returns_defaults", func(t *testing.T) {
		cfg, err := LoadConfig(fs, "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("override_file", func(t *testing.T) {
		doc := `
dependencies:
  base: [git]
links:
  - name: vim
    source: dotfiles/vimrc
    dest: .vimrc
shell:
  binary: zsh
  marker_dir: .oh-my-zsh
  rc_file: .zshrc
  installer_urls: [https://example.invalid/install.sh]
`
		require.NoError(t, afero.WriteFile(fs, "/etc/configs.yaml", []byte(doc), 0o644))

		cfg, err := LoadConfig(fs, "/etc/configs.yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{"git"}, cfg.Dependencies.Base)
		require.Len(t, cfg.Links, 1)
		assert.Equal(t, ".vimrc", cfg.Links[0].Dest)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadConfig(fs, "/nope.yaml")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no_dependencies", func(c *Config) { c.Dependencies.Base = nil }},
		{"no_links", func(c *Config) { c.Links = nil }},
		{"link_without_source", func(c *Config) { c.Links[0].Source = "" }},
		{"duplicate_destination", func(c *Config) { c.Links[1].Dest = c.Links[0].Dest }},
		{"no_installer_url", func(c *Config) { c.Shell.InstallerURL = nil }},
		{"no_marker_dir", func(c *Config) { c.Shell.MarkerDir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
