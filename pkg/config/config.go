// Package config loads termcwd's configuration: embedded defaults,
// then an optional per-user config file (TOML or YAML), then TERMCWD_*
// environment variables. Command-line flags override all of these and
// are applied by the caller.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/termcwd/pkg/errors"
)

//go:embed termcwd.toml
var defaultConfig []byte

// Config is the resolved configuration.
type Config struct {
	Theme struct {
		// Dir is the user-writable theme directory. Empty means the
		// default under the per-user data root.
		Dir string `koanf:"dir"`
	} `koanf:"theme"`
	Profile struct {
		// Copilot enables the Copilot helper function snippet.
		Copilot bool `koanf:"copilot"`
	} `koanf:"profile"`
	Output struct {
		// Color is "auto", "always" or "never".
		Color string `koanf:"color"`
	} `koanf:"output"`
}

// Load resolves the configuration. A missing user config file is not an
// error; a malformed one is.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, candidate := range userConfigCandidates() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		parser := fileParser(candidate)
		if err := k.Load(file.Provider(candidate), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", candidate)
		}
		break
	}

	// TERMCWD_THEME_DIR maps to theme.dir, TERMCWD_PROFILE_COPILOT to
	// profile.copilot, and so on.
	if err := k.Load(env.Provider("TERMCWD_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "TERMCWD_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}
	return &cfg, nil
}

// DefaultTOML returns the embedded default configuration document,
// used by the genconfig command.
func DefaultTOML() []byte {
	return defaultConfig
}

func userConfigCandidates() []string {
	dir := filepath.Join(xdg.ConfigHome, "termcwd")
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
	}
}

func fileParser(path string) koanf.Parser {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Parser()
	}
	return toml.Parser()
}

// rawBytesProvider is a koanf provider for in-memory bytes
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read")
}
