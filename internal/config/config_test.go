package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "owl-recorder", cfg.Logger.ServiceName)
	assert.Equal(t, DefaultOutputDir, cfg.Convert.OutputDir)
	assert.Equal(t, DefaultFallbackOutputDir, cfg.Convert.FallbackOutputDir)
	assert.Equal(t, 4, cfg.Convert.Concurrency)
	assert.Equal(t, map[string]string{"enter": "enter", "tab": "tab"}, cfg.Convert.Keys)
	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty output dir", func(c *Config) { c.Convert.OutputDir = "" }, "convert.output_dir"},
		{"zero concurrency", func(c *Config) { c.Convert.Concurrency = 0 }, "convert.concurrency"},
		{"key without action", func(c *Config) { c.Convert.Keys = map[string]string{"escape": ""} }, "convert.keys.escape"},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
		{"bad transport", func(c *Config) { c.Server.Transport = "carrier-pigeon" }, "server.transport"},
		{"negative ttl", func(c *Config) { c.Server.CacheTTL = -time.Second }, "server.cache_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "owl.yaml")
	content := []byte(`
logger:
  level: debug
convert:
  output_dir: out/owl
  selector_attribute: data-test
  concurrency: 2
  keys:
    enter: enter
    escape: esc
server:
  cache_ttl: 5s
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "out/owl", cfg.Convert.OutputDir)
	assert.Equal(t, DefaultFallbackOutputDir, cfg.Convert.FallbackOutputDir)
	assert.Equal(t, "data-test", cfg.Convert.SelectorAttribute)
	assert.Equal(t, 2, cfg.Convert.Concurrency)
	assert.Equal(t, "esc", cfg.Convert.Keys["escape"])
	assert.Equal(t, 5*time.Second, cfg.Server.CacheTTL)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Convert.OutputDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("OWL_CONVERT_OUTPUT_DIR", "from-env")
	t.Setenv("OWL_CONVERT_CONCURRENCY", "8")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Convert.OutputDir)
	assert.Equal(t, 8, cfg.Convert.Concurrency)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("convert:\n  concurrency: 0\n"), 0o644))

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "convert.concurrency")
}
