package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/sempr/psutil-go/pkg/constants"
)

// EnvConfigPath names the environment variable holding the config path.
const EnvConfigPath = "PSUTIL_CONFIG"

// Config stores all configuration for psutil.
type Config struct {
	Eval     EvalConfig     `toml:"eval"`
	Validate ValidateConfig `toml:"validate"`
	Sanitize SanitizeConfig `toml:"sanitize"`
	Launch   []Launch       `toml:"launch"`
	Log      LogConfig      `toml:"log"`
}

type EvalConfig struct {
	In     string  `toml:"in"`
	Out    string  `toml:"out"`
	Time   float64 `toml:"time"`
	Memory uint64  `toml:"memory"`
	Loose  bool    `toml:"loose"`
}

type ValidateConfig struct {
	Filter string `toml:"filter"`
}

type SanitizeConfig struct {
	Ext []string `toml:"ext"`
}

// Launch wraps solutions with the given extension in a command. See
// client.Resolver for the placeholders.
type Launch struct {
	Ext string   `toml:"ext"`
	Cmd []string `toml:"cmd"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Eval: EvalConfig{
			In:   constants.DefaultInputFilter,
			Out:  constants.DefaultOutputFilter,
			Time: constants.DefaultTimeLimit,
		},
		Validate: ValidateConfig{Filter: constants.DefaultValidateExpr},
		Sanitize: SanitizeConfig{Ext: []string{"txt", "in", "out"}},
		Log:      LogConfig{Level: "info"},
	}
}

// Launchers returns the launch table keyed by extension.
func (c *Config) Launchers() map[string][]string {
	m := make(map[string][]string, len(c.Launch))
	for _, l := range c.Launch {
		m[l.Ext] = l.Cmd
	}
	return m
}

// Check validates values that would otherwise fail much later.
func (c *Config) Check() error {
	if c.Eval.Time <= 0 {
		return fmt.Errorf("eval.time must be positive, got %v", c.Eval.Time)
	}
	if c.Eval.Memory > constants.MaxMemoryMB {
		return fmt.Errorf("eval.memory must be at most %d MB, got %d", constants.MaxMemoryMB, c.Eval.Memory)
	}
	for i, l := range c.Launch {
		if l.Ext == "" {
			return fmt.Errorf("launch[%d]: ext is required", i)
		}
	}
	return nil
}

// Path resolves the config file location: explicit, $PSUTIL_CONFIG, then
// <user config dir>/psutil/config.toml. A .env file in the working directory
// is loaded first.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	_ = godotenv.Load()
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "psutil", "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
