package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/aditamento-extractor/internal/source"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "server" {
		t.Errorf("Expected default mode to be 'server', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.BaseURL != source.DefaultBaseURL {
		t.Errorf("Expected default base URL to be '%s', got '%s'", source.DefaultBaseURL, cfg.BaseURL)
	}

	if len(cfg.RemoteNames) != 4 {
		t.Errorf("Expected four default remote documents, got %v", cfg.RemoteNames)
	}

	if cfg.FetchTimeout != 0 {
		t.Errorf("Expected no default fetch timeout, got %s", cfg.FetchTimeout)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	valid := func(mut func(*Config)) *Config {
		cfg := DefaultConfig()
		cfg.PDFDirectory = dir
		if mut != nil {
			mut(cfg)
		}
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid server mode", config: valid(nil)},
		{name: "valid stdio mode", config: valid(func(c *Config) { c.Mode = ModeStdio })},
		{name: "valid batch mode", config: valid(func(c *Config) { c.Mode = ModeBatch })},
		{name: "invalid mode", config: valid(func(c *Config) { c.Mode = "invalid" }), wantErr: true},
		{name: "port too low in server mode", config: valid(func(c *Config) { c.Port = 0 }), wantErr: true},
		{name: "port too high in server mode", config: valid(func(c *Config) { c.Port = 70000 }), wantErr: true},
		{name: "port ignored in stdio mode", config: valid(func(c *Config) { c.Mode = ModeStdio; c.Port = 0 })},
		{name: "empty PDF directory", config: valid(func(c *Config) { c.PDFDirectory = "" }), wantErr: true},
		{name: "relative base URL", config: valid(func(c *Config) { c.BaseURL = "termos" }), wantErr: true},
		{name: "ftp base URL", config: valid(func(c *Config) { c.BaseURL = "ftp://host/x" }), wantErr: true},
		{name: "negative timeout", config: valid(func(c *Config) { c.FetchTimeout = -time.Second }), wantErr: true},
		{name: "zero max file size", config: valid(func(c *Config) { c.MaxFileSize = 0 }), wantErr: true},
		{name: "invalid log level", config: valid(func(c *Config) { c.LogLevel = "trace" }), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidateDirectoryCreation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PDFDirectory = filepath.Join(t.TempDir(), "nested", "pdfs")

	require.NoError(t, cfg.Validate())

	info, err := os.Stat(cfg.PDFDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConfigModes(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsServerMode())
	assert.False(t, cfg.IsStdioMode())
	assert.False(t, cfg.IsBatchMode())

	cfg.Mode = ModeBatch
	assert.True(t, cfg.IsBatchMode())

	cfg.Mode = ModeStdio
	assert.True(t, cfg.IsStdioMode())
}

func TestConfigAddressAndString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9090

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Contains(t, cfg.String(), "Mode: server")
	assert.Contains(t, cfg.String(), "Port: 9090")
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	cfg.Mode = ModeStdio
	cfg.LogLevel = "info"
	cfg.NewLogger(&buf).Error("discarded")
	assert.Empty(t, buf.String())

	cfg.LogLevel = "debug"
	cfg.NewLogger(&buf).Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MODE", "HOST", "PORT", "DIR", "BASEURL", "REMOTE",
		"FETCHTIMEOUT", "OUT", "LOGLEVEL", "MAXFILESIZE",
	} {
		key := EnvPrefix + "_" + name
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, source.RemoteFiles, cfg.RemoteNames)
	assert.Empty(t, cfg.Files)
	assert.True(t, filepath.IsAbs(cfg.PDFDirectory))
}

func TestLoad_Flags(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load([]string{
		"--mode=batch",
		"--dir=" + dir,
		"--remote=termo1.pdf, termo3.pdf,",
		"--fetchtimeout=5s",
		"--out=/tmp/out",
		"--loglevel=debug",
		"--maxfilesize=2048",
		"a.pdf", "b.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeBatch, cfg.Mode)
	assert.Equal(t, []string{"termo1.pdf", "termo3.pdf"}, cfg.RemoteNames)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, cfg.Files)
}

func TestLoad_EnvironmentAndDotEnv(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ADITAMENTO_PORT=9191\nADITAMENTO_BASEURL=http://localhost:9000/docs\n"), 0o600))
	t.Setenv("ADITAMENTO_LOGLEVEL", "warn")
	t.Cleanup(func() {
		os.Unsetenv("ADITAMENTO_PORT")
		os.Unsetenv("ADITAMENTO_BASEURL")
	})

	cfg, err := Load([]string{"--port=9292"})
	require.NoError(t, err)

	assert.Equal(t, 9292, cfg.Port, "flag wins over .env")
	assert.Equal(t, "http://localhost:9000/docs", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	clearEnvVars(t)
	t.Chdir(t.TempDir())

	_, err := Load([]string{"--version"})
	assert.True(t, errors.Is(err, ErrVersionRequested))

	_, err = Load([]string{"--mode=nope"})
	assert.Error(t, err)

	_, err = Load([]string{"--unknown-flag"})
	assert.Error(t, err)
}
