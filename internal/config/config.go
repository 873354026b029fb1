// Package config loads tsclosure settings from defaults, a tsclosure.toml
// project file and TSCLOSURE_* environment variables, in increasing order
// of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"martianoff/tsclosure/internal/logger"
	"martianoff/tsclosure/internal/transpiler"
)

// FileName is the project configuration file searched for.
const FileName = "tsclosure.toml"

// EnvPrefix prefixes the environment variables overriding file settings.
const EnvPrefix = "TSCLOSURE"

// Config holds every tsclosure setting.
type Config struct {
	DownlevelDecorators       bool      `mapstructure:"downlevel_decorators"`
	Untyped                   bool      `mapstructure:"untyped"`
	UnknownTypesPaths         []string  `mapstructure:"unknown_types_paths"`
	GenerateExtraSuppressions bool      `mapstructure:"generate_extra_suppressions"`
	DefaultExportShim         bool      `mapstructure:"default_export_shim"`
	RootDir                   string    `mapstructure:"root_dir"`
	Strict                    bool      `mapstructure:"strict"`
	Quiet                     bool      `mapstructure:"quiet"`
	Workers                   int       `mapstructure:"workers"`
	Log                       LogConfig `mapstructure:"log"`

	// Source is the configuration file that was read, or "".
	Source string `mapstructure:"-"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
	JSON    bool `mapstructure:"json"`
}

// SetDefaults registers the default of every key. Keys without a default
// are not picked up from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("downlevel_decorators", true)
	v.SetDefault("untyped", false)
	v.SetDefault("unknown_types_paths", []string{})
	v.SetDefault("generate_extra_suppressions", true)
	v.SetDefault("default_export_shim", false)
	v.SetDefault("root_dir", "")
	v.SetDefault("strict", false)
	v.SetDefault("quiet", false)
	v.SetDefault("workers", 0)
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.json", false)
}

// Keys lists the configuration keys in display order.
func Keys() []string {
	return []string{
		"downlevel_decorators",
		"untyped",
		"unknown_types_paths",
		"generate_extra_suppressions",
		"default_export_shim",
		"root_dir",
		"strict",
		"quiet",
		"workers",
		"log.verbose",
		"log.json",
	}
}

// New returns a viper instance with defaults and environment binding, and
// the project file found from startDir merged in.
func New(startDir string) (*viper.Viper, string, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	path := FindConfigFile(startDir)
	if path == "" {
		return v, "", nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, "", errors.Wrapf(err, "read %s", path)
	}
	return v, path, nil
}

// Load reads the configuration for a project containing startDir and
// validates it.
func Load(startDir string) (*Config, error) {
	v, path, err := New(startDir)
	if err != nil {
		return nil, err
	}
	cfg, err := Unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Named("config").Debugw("configuration loaded", "source", path, logger.FieldWorkers, cfg.Workers)
	return cfg, nil
}

// LoadFile reads one configuration file over the defaults, without
// environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	cfg, err := Unmarshal(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Unmarshal decodes the settings of v.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode configuration")
	}
	return &cfg, nil
}

// FindConfigFile walks up from startDir looking for tsclosure.toml and
// returns its path, or "" when there is none.
func FindConfigFile(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Options converts the configuration into transpiler options.
func (c *Config) Options() transpiler.Options {
	return transpiler.Options{
		DownlevelDecorators:       c.DownlevelDecorators,
		Untyped:                   c.Untyped,
		UnknownTypesPaths:         c.UnknownTypesPaths,
		GenerateExtraSuppressions: c.GenerateExtraSuppressions,
		DefaultExportShim:         c.DefaultExportShim,
		Strict:                    c.Strict,
		Quiet:                     c.Quiet,
		Workers:                   c.Workers,
	}
}
