package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/github-mcp/internal/app"
	"github.com/bobmcallan/github-mcp/internal/common"
	"github.com/bobmcallan/github-mcp/internal/config"
)

func newTestApp(t *testing.T, providerURL string) *app.App {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Server.Transport = config.TransportHTTP
	cfg.GitHub.APIURL = providerURL
	cfg.GitHub.Token = "ghp_test"

	application, err := app.New(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}

	t.Cleanup(func() {
		application.Close()
	})

	return application
}

func TestRoutes_HealthEndpoint(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:1"))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
	if body["tools"] != float64(12) {
		t.Errorf("expected 12 tools, got %v", body["tools"])
	}
}

func TestRoutes_VersionEndpoint(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:1"))

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["version"] == "" {
		t.Error("expected version in response")
	}
}

func TestRoutes_NotFound(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:1"))

	for _, path := range []string{"/", "/api/unknown", "/static/app.js"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()

		srv.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected status 404, got %d", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: expected JSON 404, got %s", path, ct)
		}
	}
}

func TestRoutes_MCPToolsList(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:1"))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(resp.Result.Tools) != 12 {
		t.Errorf("expected 12 tools, got %d", len(resp.Result.Tools))
	}
}

func TestRoutes_MCPToolCallReachesProvider(t *testing.T) {
	var gotPath, gotAuth string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"name":"main"}]`)
	}))
	defer provider.Close()

	srv := New(newTestApp(t, provider.URL))

	body := `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"list_branches","arguments":{"owner":"octocat","repo":"hello"}}}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotPath != "/repos/octocat/hello/branches" {
		t.Errorf("expected provider path /repos/octocat/hello/branches, got %s", gotPath)
	}
	if gotAuth != "Bearer ghp_test" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if w.Header().Get("X-Correlation-ID") != "req-42" {
		t.Errorf("expected correlation id echoed, got %q", w.Header().Get("X-Correlation-ID"))
	}
	if !strings.Contains(w.Body.String(), `[{\"name\":\"main\"}]`) {
		t.Errorf("expected provider body in tool result, got %s", w.Body.String())
	}
}

func TestRoutes_MCPRejectsNonJSON(t *testing.T) {
	srv := New(newTestApp(t, "http://localhost:1"))

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
