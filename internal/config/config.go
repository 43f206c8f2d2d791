// Package config loads owl-recorder settings from defaults, an optional
// YAML file, OWL_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// OWL_CONVERT_OUTPUT_DIR=out.
const EnvPrefix = "OWL"

// Config is the complete application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color per log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// ConvertConfig controls recording conversion.
type ConvertConfig struct {
	// OutputDir receives <name>.owl.json files.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// FallbackOutputDir is tried when OutputDir cannot be written.
	FallbackOutputDir string `mapstructure:"fallback_output_dir" yaml:"fallback_output_dir"`
	// SelectorAttribute overrides the recording's own selectorAttribute.
	SelectorAttribute string `mapstructure:"selector_attribute" yaml:"selector_attribute"`
	Concurrency       int    `mapstructure:"concurrency" yaml:"concurrency"`
	// Keys maps recorder key names to Owloops actions.
	Keys map[string]string `mapstructure:"keys" yaml:"keys"`
}

// ServerConfig controls the MCP server.
type ServerConfig struct {
	Transport string        `mapstructure:"transport" yaml:"transport"`
	Port      int           `mapstructure:"port" yaml:"port"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// Default output folders, relative to the working directory.
const (
	DefaultOutputDir         = "owloops/integration"
	DefaultFallbackOutputDir = "owloops/e2e"
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "owl-recorder")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	v.SetDefault("convert.output_dir", DefaultOutputDir)
	v.SetDefault("convert.fallback_output_dir", DefaultFallbackOutputDir)
	v.SetDefault("convert.selector_attribute", "")
	v.SetDefault("convert.concurrency", 4)
	v.SetDefault("convert.keys", map[string]string{"enter": "enter", "tab": "tab"})

	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cache_ttl", 30*time.Second)
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Unmarshal(v)
	if err != nil {
		// Defaults are static; failing to decode them is a programming error.
		panic(fmt.Sprintf("config: decoding defaults: %v", err))
	}
	return cfg
}

// Load reads configuration into v. An explicit path must exist; otherwise
// ./owl-recorder.yaml is used when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("owl-recorder")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := Unmarshal(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Unmarshal decodes v into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Convert.OutputDir == "" {
		return errors.New("convert.output_dir must not be empty")
	}
	if c.Convert.Concurrency < 1 {
		return errors.New("convert.concurrency must be a positive integer")
	}
	for key, name := range c.Convert.Keys {
		if name == "" {
			return fmt.Errorf("convert.keys.%s must name an action", key)
		}
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	switch c.Server.Transport {
	case "stdio", "streamable-http":
	default:
		return fmt.Errorf("server.transport must be stdio or streamable-http, got %q", c.Server.Transport)
	}
	if c.Server.CacheTTL < 0 {
		return errors.New("server.cache_ttl must not be negative")
	}
	return nil
}
