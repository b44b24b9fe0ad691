package config

// Config is the static description of the environment configs-cli converges to.
// It is normally decoded from the embedded defaults.yaml.
type Config struct {
	Dependencies Dependencies `yaml:"dependencies"`
	Links        []Link       `yaml:"links"`
	Shell        Shell        `yaml:"shell"`
	PathLines    PathLines    `yaml:"path_lines"`
}

// Dependencies holds the package sets handed to the platform package manager.
// - Base: installed on every platform.
// - Arch: Arch Linux overrides (replacements plus extra toolchain packages).
// - Binaries: package name -> executable name, for search-path probes.
type Dependencies struct {
	Base     []string          `yaml:"base"`
	Arch     ArchDependencies  `yaml:"arch"`
	Binaries map[string]string `yaml:"binaries"`
}

// ArchDependencies describes how the Arch Linux set differs from the base set.
type ArchDependencies struct {
	Replace map[string][]string `yaml:"replace"` // umbrella package -> sub-packages
	Extra   []string            `yaml:"extra"`   // appended after the base set
	Gems    []Gem               `yaml:"gems"`    // installed with `gem install --user-install`
}

// Gem is a Ruby gem providing a command-line tool.
type Gem struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"` // executable probed on PATH before installing
}

// Link maps a path inside the repository to a destination under the home directory.
// - Source: relative to the repository root.
// - Dest: relative to the home directory.
// - Optional: skipped when the source does not exist.
// - ShellRC: the link is the shell startup file that receives PATH lines.
type Link struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Dest     string `yaml:"dest"`
	Optional bool   `yaml:"optional"`
	ShellRC  bool   `yaml:"shell_rc"`
}

// Shell configures the shell framework installer and the login-shell selector.
type Shell struct {
	Binary       string   `yaml:"binary"`        // shell executable, e.g. zsh
	MarkerDir    string   `yaml:"marker_dir"`    // relative to home; its existence means "installed"
	RCFile       string   `yaml:"rc_file"`       // relative to home
	BackupSuffix string   `yaml:"backup_suffix"` // appended to RCFile for the pre-install copy
	InstallerURL []string `yaml:"installer_urls"`
	ScriptName   string   `yaml:"script_name"`
	Extras       []Extra  `yaml:"extras"`
}

// Extra is an optional theme or plugin cloned into the framework's custom directory.
type Extra struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "themes" or "plugins"
	URL  string `yaml:"url"`
}

// PathLines lists the PATH extensions kept in the shell startup file.
type PathLines struct {
	Static   []string `yaml:"static"`    // written verbatim
	RubyGems bool     `yaml:"ruby_gems"` // discover gem bin directories at runtime
}
