package app

import (
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/github-mcp/internal/common"
	"github.com/bobmcallan/github-mcp/internal/config"
	"github.com/bobmcallan/github-mcp/internal/github"
	"github.com/bobmcallan/github-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Client     *github.Client
	Dispatcher *tools.Dispatcher
	MCPServer  *server.MCPServer

	ToolCount int
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if err := checkAPIURL(cfg.GitHub.APIURL); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.GitHub.Token == "" {
		logger.Warn().Msg("GITHUB_ACCESS_TOKEN is not set, provider calls will be sent with an empty bearer token")
	}

	a.initServer()

	logger.Info().
		Str("api_url", a.Client.BaseURL()).
		Str("transport", cfg.Server.Transport).
		Int("tools", a.ToolCount).
		Bool("strict_status", cfg.GitHub.StrictStatus).
		Msg("application initialization complete")

	return a, nil
}

// checkAPIURL rejects base URLs no request could be sent to.
func checkAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid github.api_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid github.api_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid github.api_url %q: missing host", raw)
	}
	return nil
}

// initServer builds the provider client and registers every tool on a new
// MCP server.
func (a *App) initServer() {
	a.Client = github.NewClient(a.Config.GitHub, a.Logger)
	a.Dispatcher = tools.NewDispatcher(a.Client, a.Logger, a.Config.GitHub.StrictStatus)

	a.MCPServer = server.NewMCPServer(
		a.Config.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)
	a.ToolCount = tools.Register(a.MCPServer, a.Dispatcher)
}

// HTTPServer returns a stateless streamable HTTP transport for the MCP server.
func (a *App) HTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(a.MCPServer,
		server.WithStateLess(true),
	)
}

// Close releases application resources.
func (a *App) Close() error {
	a.Client.CloseIdleConnections()
	return nil
}
