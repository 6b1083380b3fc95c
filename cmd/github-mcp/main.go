package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/github-mcp/internal/app"
	"github.com/bobmcallan/github-mcp/internal/common"
	"github.com/bobmcallan/github-mcp/internal/config"
	"github.com/bobmcallan/github-mcp/internal/server"
	"github.com/bobmcallan/github-mcp/internal/tools"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	transport   = flag.String("transport", "", "Transport: stdio or http (overrides config)")
	port        = flag.String("port", "", "HTTP port (overrides config)")
	envFile     = flag.String("env", ".env", "Path to .env file (ignored when missing)")
	showVersion = flag.Bool("version", false, "Print version information")
	listTools   = flag.Bool("list-tools", false, "Print the tool catalog and exit; trailing tool names limit the listing")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	common.LoadVersionFromFile()

	if *showVersion {
		fmt.Printf("github-mcp version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if *listTools {
		if err := printCatalog(os.Stdout, flag.Args()...); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	config.ApplyFlagOverrides(cfg, *transport, *port)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("transport", cfg.Server.Transport).
		Str("config_files", fmt.Sprintf("%v", configFiles)).
		Str("version", common.GetVersion()).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if cfg.Server.Transport == config.TransportStdio {
		// Stdio transport: reads stdin, writes stdout
		if err := mcpserver.ServeStdio(application.MCPServer); err != nil {
			logger.Error().Str("error", err.Error()).Msg("stdio server error")
			os.Exit(1)
		}
		return
	}

	serveHTTP(application, logger)
}

// serveHTTP runs the streamable HTTP transport until SIGINT or SIGTERM.
func serveHTTP(application *app.App, logger *common.Logger) {
	srv := server.New(application)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error().Str("error", err.Error()).Msg("server failed to start")
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

// printCatalog writes one line per tool: name, method and path template.
// With names, only those tools are listed, in the order given.
func printCatalog(w io.Writer, names ...string) error {
	defs := tools.Definitions()
	if len(names) > 0 {
		defs = defs[:0]
		for _, name := range names {
			def, ok := tools.LookupName(name)
			if !ok {
				return fmt.Errorf("unknown tool %q", name)
			}
			defs = append(defs, def)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tMETHOD\tPATH")
	for _, def := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.Method, def.Path)
	}
	return tw.Flush()
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"github-mcp.toml",
		"config/github-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "github-mcp.toml"),
		filepath.Join(binDir, "config", "github-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
