package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the tcldoc settings. Command line flags override it.
type Config struct {
	Output OutputConfig `toml:"output"`
	Parse  ParseConfig  `toml:"parse"`
	Log    LogConfig    `toml:"log"`
	Watch  WatchConfig  `toml:"watch"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type ParseConfig struct {
	// Extensions selects the files read when a directory is given.
	Extensions []string `toml:"extensions"`
	// KeepGoing skips files that fail to parse instead of stopping.
	KeepGoing bool `toml:"keep_going"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a TOML file. An empty path means the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	var meta, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var keys = make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.applyDefaults()
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "yaml"
	}
	if len(c.Parse.Extensions) == 0 {
		c.Parse.Extensions = []string{".tcl", ".tm"}
	}
	for i, ext := range c.Parse.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Parse.Extensions[i] = "." + ext
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 300 * time.Millisecond
	}
}

// SlogLevel parses Level as one of debug, info, warn or error.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	return level, nil
}

// HasExtension reports whether path ends with one of the configured
// extensions.
func (c ParseConfig) HasExtension(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
