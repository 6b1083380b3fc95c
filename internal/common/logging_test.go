package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func consoleConfig(level string) LoggingConfig {
	return LoggingConfig{Level: level, Outputs: []string{"console"}}
}

func TestNewLoggerFromConfig_ReturnsNonNil(t *testing.T) {
	logger := NewLoggerFromConfig(consoleConfig("info"))
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
}

func TestNewLoggerFromConfig_DefaultsWhenEmpty(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig with empty config returned nil")
	}
	logger.Debug().Str("key", "value").Msg("must not panic")
}

func TestNewLoggerFromConfig_FluentAPI(t *testing.T) {
	logger := NewLoggerFromConfig(consoleConfig("error"))
	logger.Info().Str("tool", "list_repos").Msg("test message")
	logger.Warn().Int("status_code", 404).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Int64("duration_ms", 12).Bool("ok", true).Msg("debug")
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "github-mcp.log")
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "info",
		Outputs:  []string{"file"},
		FilePath: path,
	})
	logger.Info().Str("tool", "create_file").Msg("written to file")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("tool", "get_repo_details").Msg("hello")

	if buf.String() == "" {
		t.Error("Expected output to provided writer, got empty string")
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("Silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

// stdout is the MCP JSON-RPC channel in stdio mode.
func TestNewLoggerFromConfig_DoesNotWriteToStdout(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLoggerFromConfig(consoleConfig("info"))
	logger.Info().Str("tool", "test").Msg("this must not go to stdout")
	logger.Error().Msg("neither should this")
	time.Sleep(50 * time.Millisecond)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("Logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLoggerFromConfig(consoleConfig("error"))
	correlated := logger.WithCorrelationId("call-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
	correlated.Info().Str("tool", "merge_pull_request").Msg("handler start")
}

func TestLoadVersionFrom_OnlyFillsDefaults(t *testing.T) {
	oldVersion, oldBuild, oldCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = oldVersion, oldBuild, oldCommit })

	Version, Build, GitCommit = "dev", "unknown", "v-from-ldflags"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# build info\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc123\nmalformed line\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFrom(path)

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}
	if Build != "2026-10-01" {
		t.Errorf("expected build 2026-10-01, got %s", Build)
	}
	if GitCommit != "v-from-ldflags" {
		t.Errorf("ldflags commit should win, got %s", GitCommit)
	}
	if !strings.Contains(GetFullVersion(), "1.2.3") {
		t.Errorf("GetFullVersion missing version: %s", GetFullVersion())
	}
}

func TestCorrelationIDContext(t *testing.T) {
	ctx := context.Background()
	if id := CorrelationIDFromContext(ctx); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}

	ctx = ContextWithCorrelationID(ctx, "req-123")
	if id := CorrelationIDFromContext(ctx); id != "req-123" {
		t.Errorf("expected req-123, got %q", id)
	}
}
