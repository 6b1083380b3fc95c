package config

import "github.com/bobmcallan/github-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "GithubMCP",
			Transport: TransportStdio,
			Port:      "4243",
		},
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com",
			UserAgent: "GithubMCP-app/1.0",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/github-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
