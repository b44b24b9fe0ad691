package config

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// ErrUnsupportedPlatform is returned for a target platform configs-cli has no package manager for.
var ErrUnsupportedPlatform = zerr.New("unsupported system; specify one of: ubuntu, arch, macos, windows")

// Platform identifies the target operating system of a setup run.
type Platform string

const (
	Ubuntu  Platform = "ubuntu"
	Arch    Platform = "arch"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
)

// Platforms lists the canonical platform names in the order shown to users.
var Platforms = []Platform{Ubuntu, Arch, MacOS, Windows}

var platformAliases = map[string]Platform{
	"ubuntu":    Ubuntu,
	"debian":    Ubuntu,
	"arch":      Arch,
	"archlinux": Arch,
	"macos":     MacOS,
	"mac":       MacOS,
	"windows":   Windows,
}

// ParsePlatform maps a user-supplied system name (case-insensitive, aliases allowed)
// to a Platform.
func ParsePlatform(name string) (Platform, error) {
	p, ok := platformAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
	return p, nil
}

// Unix reports whether the platform has a login shell and the shell framework.
func (p Platform) Unix() bool {
	return p != Windows
}

// PackagesFor returns the dependency set for a platform, in install order.
// Arch replaces umbrella packages with their sub-packages and appends its extras.
func (d Dependencies) PackagesFor(p Platform) []string {
	if p != Arch {
		return append([]string(nil), d.Base...)
	}
	var pkgs []string
	for _, name := range d.Base {
		if sub, ok := d.Arch.Replace[name]; ok {
			pkgs = append(pkgs, sub...)
			continue
		}
		pkgs = append(pkgs, name)
	}
	return append(pkgs, d.Arch.Extra...)
}

// BinaryFor returns the executable a package provides, defaulting to the package name.
func (d Dependencies) BinaryFor(pkg string) string {
	if bin, ok := d.Binaries[pkg]; ok && bin != "" {
		return bin
	}
	return pkg
}
