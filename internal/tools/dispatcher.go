// Package tools holds the GitHub tool catalog and dispatches MCP tool calls
// to the provider.
//
// Each call is validated against its Definition, turned into exactly one
// provider request, and the response is mapped to an MCP result:
//
//   - transport failure: the handler returns an error (JSON-RPC error to the caller)
//   - invalid input: an isError result naming the parameter; no request is made
//   - status-checked tool with an unexpected status: an isError result whose
//     text is {"error", "status_code", "details"}; never a fatal failure.
//     isError is set so agents can tell it from provider data.
//   - empty provider body: the text null
//   - anything else: the provider body, unmodified
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/github-mcp/internal/common"
	"github.com/bobmcallan/github-mcp/internal/github"
)

// Doer performs a single provider request. *github.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, data interface{}) (*github.Response, error)
}

// ProviderError is the structured result for a provider call rejected by
// status check.
type ProviderError struct {
	Message    string `json:"error"`
	StatusCode int    `json:"status_code"`
	Details    string `json:"details,omitempty"`
}

// Dispatcher executes tool invocations against the provider.
type Dispatcher struct {
	client Doer
	logger *common.Logger
	strict bool
}

// NewDispatcher creates a dispatcher. With strictStatus every tool checks for
// a 2xx status; otherwise only tools with ExpectedStatus do.
func NewDispatcher(client Doer, logger *common.Logger, strictStatus bool) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: logger,
		strict: strictStatus,
	}
}

// Invoke runs the tool identified by id with raw MCP arguments.
func (d *Dispatcher) Invoke(ctx context.Context, id ID, args map[string]interface{}) (*mcp.CallToolResult, error) {
	def, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown tool %s", id)
	}

	correlationID := common.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	logger := d.logger.WithCorrelationId(correlationID)
	start := time.Now()

	in, err := DecodeInput(def, args)
	if err != nil {
		logger.Warn().Str("tool", def.Name).Str("error", err.Error()).Msg("invalid tool input")
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	req := def.Build(in)

	var body interface{}
	if req.Body != nil {
		body = req.Body
	}
	resp, err := d.client.Do(ctx, req.Method, req.Path, body)
	if err != nil {
		logger.Error().Str("tool", def.Name).Str("error", err.Error()).Msg("tool call failed")
		return nil, fmt.Errorf("%s: %w", def.Name, err)
	}

	logger.Info().
		Str("tool", def.Name).
		Str("method", req.Method).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool call complete")

	if d.checksStatus(def) && !accepted(def, resp) {
		return providerErrorResult(def, resp), nil
	}

	payload, err := passThrough(resp)
	if err != nil {
		logger.Error().Str("tool", def.Name).Int("status", resp.StatusCode).Str("error", err.Error()).Msg("unreadable provider response")
		return nil, fmt.Errorf("%s: %w", def.Name, err)
	}
	return textResult(payload), nil
}

func (d *Dispatcher) checksStatus(def Definition) bool {
	return d.strict || def.StatusChecked()
}

// accepted reports whether resp carries a status the tool treats as success.
func accepted(def Definition, resp *github.Response) bool {
	if def.StatusChecked() {
		return slices.Contains(def.ExpectedStatus, resp.StatusCode)
	}
	return resp.OK()
}

// passThrough returns the provider body as JSON text. An empty body becomes
// null; a body that is not JSON is an error.
func passThrough(resp *github.Response) (string, error) {
	if len(resp.Body) == 0 {
		return "null", nil
	}
	if !json.Valid(resp.Body) {
		return "", fmt.Errorf("provider returned non-JSON response (status %d)", resp.StatusCode)
	}
	return string(resp.Body), nil
}

func providerErrorResult(def Definition, resp *github.Response) *mcp.CallToolResult {
	out, err := json.Marshal(ProviderError{
		Message:    def.ErrorMessage,
		StatusCode: resp.StatusCode,
		Details:    string(resp.Body),
	})
	if err != nil {
		return errorResult(fmt.Sprintf("%s (status %d)", def.ErrorMessage, resp.StatusCode))
	}
	return errorResult(string(out))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
