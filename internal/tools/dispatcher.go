package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	xerrors "Monad-MCP/internal/errors"
	"Monad-MCP/internal/observability/metrics"
	"Monad-MCP/pkg/logger"
)

// Dispatcher is the boundary between the MCP transport and the remote
// clients. Failures never cross it as faults: the calling agent's protocol
// models every tool failure as ordinary tool output, so each internal
// error is converted, exactly once and only here, into an error-flagged text
// result.
type Dispatcher struct {
	registry *Registry
	log      *slog.Logger
}

// NewDispatcher wraps a registry with the dispatch boundary.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      logger.Named("tools"),
	}
}

// List returns the static tool declarations verbatim.
func (d *Dispatcher) List() []mcp.Tool {
	return d.registry.Tools()
}

// Call runs a single tool invocation to completion: validate, dispatch,
// serialize. The returned result is always a well-formed envelope, with
// IsError set when anything along the way failed.
func (d *Dispatcher) Call(ctx context.Context, name string, req mcp.CallToolRequest) *mcp.CallToolResult {
	started := time.Now()
	log := d.log.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("tool", name),
	)

	handler, ok := d.registry.handler(name)
	if !ok {
		err := xerrors.New(xerrors.CodeUnknownTool, fmt.Sprintf("unknown tool: %s", name))
		log.Warn("tool call rejected", slog.String("error", err.Error()))
		metrics.ObserveToolCall(name, string(xerrors.CodeUnknownTool), time.Since(started))
		return errorResult(err)
	}

	result, err := handler(ctx, req)
	if err != nil {
		log.Warn("tool call failed",
			slog.String("code", string(xerrors.CodeOf(err))),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(started)),
		)
		metrics.ObserveToolCall(name, string(xerrors.CodeOf(err)), time.Since(started))
		return errorResult(err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		wrapped := xerrors.Wrap(xerrors.CodeUnknown, err, "serialize tool result")
		log.Error("tool result not serializable", slog.String("error", wrapped.Error()))
		metrics.ObserveToolCall(name, string(xerrors.CodeUnknown), time.Since(started))
		return errorResult(wrapped)
	}

	log.Info("tool call completed", slog.Duration("duration", time.Since(started)))
	metrics.ObserveToolCall(name, metrics.OutcomeOK, time.Since(started))
	return mcp.NewToolResultText(string(payload))
}

// Register wires every declared tool into the MCP server, routing each
// invocation through the Call boundary. The handler's error return stays
// nil by contract.
func (d *Dispatcher) Register(s *server.MCPServer) {
	for _, tool := range d.registry.Tools() {
		name := tool.Name
		s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return d.Call(ctx, name, req), nil
		})
	}
}

// errorResult maps an internal failure onto the uniform envelope. The
// message keeps its error-code prefix so the agent can tell failure kinds
// apart and decide whether retrying makes sense.
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
