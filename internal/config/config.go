package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/aditamento-extractor/internal/source"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"
	ModeBatch  = "batch"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "ADITAMENTO"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// ErrVersionRequested is returned by Load when --version was given
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the aditamento extractor
type Config struct {
	// Server configuration
	Mode string // "stdio", "server" or "batch"
	Host string
	Port int

	// Document intake
	PDFDirectory string
	BaseURL      string
	RemoteNames  []string
	FetchTimeout time.Duration
	MaxFileSize  int64 // Maximum PDF file size in bytes

	// Batch mode
	OutputDir string
	Files     []string // positional arguments

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:         ModeServer,
		Host:         DefaultHost,
		Port:         DefaultPort,
		PDFDirectory: currentDir,
		BaseURL:      source.DefaultBaseURL,
		RemoteNames:  append([]string(nil), source.RemoteFiles...),
		MaxFileSize:  DefaultMaxFileSize,
		Version:      "1.0.0",
		ServerName:   "aditamento-extractor",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses the process command line and environment
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a configuration from args, ADITAMENTO_* environment variables
// and an optional .env file in the working directory. Flags win over the
// environment, which wins over defaults.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Check for version flag before parsing
	if err := checkVersionFlag(args); err != nil {
		return nil, err
	}

	// A missing .env is not an error; variables already set are kept
	_ = godotenv.Load()

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet("aditamento", pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	setupUsageMessage(flags)

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	bindFlagsToViper(v, flags)

	populateConfigFromViper(v, cfg)
	cfg.Files = flags.Args()

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.PDFDirectory)
	v.SetDefault("baseurl", cfg.BaseURL)
	v.SetDefault("remote", strings.Join(cfg.RemoteNames, ","))
	v.SetDefault("fetchtimeout", cfg.FetchTimeout)
	v.SetDefault("out", cfg.OutputDir)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Run mode: 'server' for the web UI, 'stdio' for MCP, 'batch' for one-shot CLI")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("dir", cfg.PDFDirectory, "Directory local PDF files are read from")
	flags.String("baseurl", cfg.BaseURL, "Base URL remote documents are fetched from")
	flags.String("remote", strings.Join(cfg.RemoteNames, ","), "Comma-separated remote documents to process (batch mode)")
	flags.Duration("fetchtimeout", cfg.FetchTimeout, "Timeout per remote request, 0 for none")
	flags.String("out", cfg.OutputDir, "Directory export files are written to (batch mode)")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, flags *pflag.FlagSet) {
	for _, name := range []string{
		"mode", "host", "port", "dir", "baseurl", "remote",
		"fetchtimeout", "out", "loglevel", "maxfilesize",
	} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(flags *pflag.FlagSet) {
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAditamento Extractor - extracts contractual terms from termos de aditamento PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   # web UI on 127.0.0.1:8080 (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs  # MCP over stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=batch --out=. a.pdf b.pdf  # process local files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=batch --remote=termo1.pdf  # process a remote document\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_MODE          Run mode\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_HOST          Server host\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_PORT          Server port\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_DIR           PDF directory\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_BASEURL       Remote base URL\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_REMOTE        Remote documents for batch mode\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_FETCHTIMEOUT  Timeout per remote request\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_OUT           Export directory\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_LOGLEVEL      Log level\n")
		fmt.Fprintf(os.Stderr, "  ADITAMENTO_MAXFILESIZE   Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) error {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return ErrVersionRequested
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.PDFDirectory = v.GetString("dir")
	cfg.BaseURL = v.GetString("baseurl")
	cfg.RemoteNames = splitList(v.GetString("remote"))
	cfg.FetchTimeout = v.GetDuration("fetchtimeout")
	cfg.OutputDir = v.GetString("out")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// splitList splits a comma-separated list, dropping empty entries
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer && c.Mode != ModeBatch {
		return errors.New("mode must be one of 'stdio', 'server' or 'batch'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate PDF directory
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Check if PDF directory exists, create if it doesn't
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	// Validate base URL
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL must be an absolute http or https URL: %q", c.BaseURL)
	}

	if c.FetchTimeout < 0 {
		return errors.New("fetch timeout cannot be negative")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the slog level for LogLevel, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
}

// NewLogger returns a text logger writing to w at the configured level. In
// stdio mode stdout carries the MCP protocol, so logs are discarded unless
// debug is enabled.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if c.IsStdioMode() && !c.IsDebug() {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, BaseURL: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.BaseURL, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true when running the web UI
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true when serving MCP over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsBatchMode returns true for one-shot command line processing
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}
