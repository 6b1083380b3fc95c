package server

import (
	"net/http"

	"github.com/bobmcallan/github-mcp/internal/handlers"
)

const mcpEndpoint = "/mcp"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over streamable HTTP)
	mux.Handle(mcpEndpoint, s.app.HTTPServer())

	mux.Handle("/api/health", handlers.NewHealthHandler(s.logger, s.app.ToolCount))
	mux.Handle("/api/version", handlers.NewVersionHandler(s.logger))

	// Everything else is a JSON 404
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}
