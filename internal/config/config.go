package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/github-mcp/internal/common"
)

// Transport names accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	GitHub  GitHubConfig         `toml:"github"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name      string `toml:"name"`
	Transport string `toml:"transport"`
	Port      string `toml:"port"`
}

// GitHubConfig holds the provider credentials and request settings.
type GitHubConfig struct {
	APIURL         string `toml:"api_url"`
	Token          string `toml:"token"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	StrictStatus   bool   `toml:"strict_status"`
}

// Timeout returns the HTTP client timeout. Zero means none.
func (g GitHubConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv populates the process environment from a .env file. Variables
// already set in the environment are left alone. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if token := os.Getenv("GITHUB_ACCESS_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if apiURL := os.Getenv("GITHUB_API_URL"); apiURL != "" {
		config.GitHub.APIURL = apiURL
	}
	if transport := os.Getenv("GITHUB_MCP_TRANSPORT"); transport != "" {
		config.Server.Transport = transport
	}
	if port := os.Getenv("GITHUB_MCP_PORT"); port != "" {
		config.Server.Port = port
	}
	if level := os.Getenv("GITHUB_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if strict := os.Getenv("GITHUB_MCP_STRICT_STATUS"); strict != "" {
		if b, err := strconv.ParseBool(strict); err == nil {
			config.GitHub.StrictStatus = b
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, transport, port string) {
	if transport != "" {
		config.Server.Transport = transport
	}
	if port != "" {
		config.Server.Port = port
	}
	config.normalize()
}

func (c *Config) normalize() {
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	c.GitHub.APIURL = strings.TrimRight(strings.TrimSpace(c.GitHub.APIURL), "/")
}

// Validate checks settings the process cannot start without. Credentials are
// not checked; a missing token or URL surfaces on the first provider call.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unsupported transport %q (expected %q or %q)", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Transport == TransportHTTP {
		if _, err := strconv.Atoi(c.Server.Port); err != nil {
			return fmt.Errorf("invalid server port %q: %w", c.Server.Port, err)
		}
	}
	return nil
}
