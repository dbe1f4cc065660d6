// Package config loads mukduk configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Command-line flags (applied by the caller)
//  2. Environment variables (MUKDUK_*, PROJECTS_DIR, OTEL_EXPORTER_OTLP_*)
//  3. Config file
//  4. Built-in defaults
//
// Config file search order (first existing file wins):
//  1. $XDG_CONFIG_HOME/mukduk/config.{toml,yaml,yml}
//  2. ~/.config/mukduk/config.{toml,yaml,yml}
//  3. ~/.mukdukrc.{toml,yaml,yml}
//
// The file format is chosen by extension. The file is only ever read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Picker modes.
const (
	PickerAuto    = "auto"
	PickerFzf     = "fzf"
	PickerBuiltin = "builtin"
)

// ProjectsDir configures where projects live.
type ProjectsDir struct {
	// Default is the projects root used unless another is picked.
	Default string `yaml:"default" toml:"default"`
	// Options are alternative roots offered by --pick-projects-dir.
	Options []string `yaml:"options" toml:"options"`
}

// Config holds all mukduk configuration.
type Config struct {
	ProjectsDir ProjectsDir `yaml:"projects_dir" toml:"projects_dir"`

	// Multiplexer is "tmux" or "zellij"; empty means auto-detect.
	Multiplexer string `yaml:"multiplexer" toml:"multiplexer"`

	// Picker selects how candidates are chosen: auto, fzf, builtin.
	Picker  string   `yaml:"picker" toml:"picker"`
	FzfArgs []string `yaml:"fzf_args" toml:"fzf_args"`
	Theme   string   `yaml:"theme" toml:"theme"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint" toml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers" toml:"otel_headers"` // e.g. "Authorization=Basic abc123"

	// ConfigFile is the path of the loaded file (empty if none).
	ConfigFile string `yaml:"-" toml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	cfg := &Config{
		Picker: PickerAuto,
		Theme:  "dark",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.ProjectsDir.Default = filepath.Join(home, "projects")
	}
	return cfg
}

// Load reads configuration from path, or from the search cascade when path
// is empty. An explicit path that does not exist is an error; a missing
// file in the cascade is not.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		path, data, err = findConfigFile(os.Getenv)
		if err != nil && !errors.Is(err, errNoConfigFile) {
			return nil, err
		}
	}

	if data != nil {
		fileCfg, err := decode(path, data)
		if err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
		mergeFile(cfg, fileCfg)
	}

	mergeEnv(cfg, os.Getenv)

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Multiplexer {
	case "", "tmux", "zellij":
	default:
		return fmt.Errorf("invalid multiplexer %q (supported: tmux, zellij)", c.Multiplexer)
	}
	switch c.Picker {
	case PickerAuto, PickerFzf, PickerBuiltin:
	default:
		return fmt.Errorf("invalid picker %q (supported: auto, fzf, builtin)", c.Picker)
	}
	return nil
}

var errNoConfigFile = errors.New("no config file found")

var configExtensions = []string{".toml", ".yaml", ".yml"}

// candidatePaths lists config locations in search order.
func candidatePaths(getenv func(string) string) []string {
	var bases []string
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		bases = append(bases, filepath.Join(xdg, "mukduk", "config"))
	}
	home := getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		bases = append(bases,
			filepath.Join(home, ".config", "mukduk", "config"),
			filepath.Join(home, ".mukdukrc"),
		)
	}

	var paths []string
	for _, b := range bases {
		for _, ext := range configExtensions {
			paths = append(paths, b+ext)
		}
	}
	return paths
}

// findConfigFile returns the first readable config file in the cascade.
func findConfigFile(getenv func(string) string) (string, []byte, error) {
	for _, p := range candidatePaths(getenv) {
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading config file %s: %w", p, err)
		}
	}
	return "", nil, errNoConfigFile
}

// decode parses data according to the extension of path.
func decode(path string, data []byte) (*Config, error) {
	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &c); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unsupported format (use .toml, .yaml or .yml)", path)
	}
	return &c, nil
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.ProjectsDir.Default != "" {
		cfg.ProjectsDir.Default = file.ProjectsDir.Default
	}
	if len(file.ProjectsDir.Options) > 0 {
		cfg.ProjectsDir.Options = file.ProjectsDir.Options
	}
	if file.Multiplexer != "" {
		cfg.Multiplexer = file.Multiplexer
	}
	if file.Picker != "" {
		cfg.Picker = file.Picker
	}
	if len(file.FzfArgs) > 0 {
		cfg.FzfArgs = file.FzfArgs
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins over the file.
func mergeEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("PROJECTS_DIR"); v != "" {
		cfg.ProjectsDir.Default = v
	}
	if v := getenv("MUKDUK_MULTIPLEXER"); v != "" {
		cfg.Multiplexer = v
	}
	if v := getenv("MUKDUK_PICKER"); v != "" {
		cfg.Picker = v
	}
	if v := getenv("MUKDUK_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// expand resolves a leading "~" in every configured directory.
func (c *Config) expand() error {
	var err error
	if c.ProjectsDir.Default, err = ExpandHome(c.ProjectsDir.Default); err != nil {
		return err
	}
	for i, o := range c.ProjectsDir.Options {
		if c.ProjectsDir.Options[i], err = ExpandHome(o); err != nil {
			return err
		}
	}
	return nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
