// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/eclipse-cli/internal/domain"
	"github.com/xvierd/eclipse-cli/internal/ports"
)

const defaultHistoryLimit = 10

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"eclipse-phase-tracker",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"list_phases",
			mcp.WithDescription("List the Eclipse Moon phases in cycle order with their durations"),
		),
		s.handleListPhases,
	)

	selectPhaseTool := mcp.NewTool(
		"select_phase",
		mcp.WithDescription("Mark the phase the boss is in right now; tracking restarts from this moment"),
		mcp.WithString(
			"phase",
			mcp.Required(),
			mcp.Description("Phase name (Pre-Clones, Clones, Post-Clones, Shield) or position 1-4"),
		),
	)
	s.server.AddTool(selectPhaseTool, s.handleSelectPhase)

	s.server.AddTool(
		mcp.NewTool(
			"get_current_phase",
			mcp.WithDescription("Get the phase active now and the time until the next phase"),
		),
		s.handleGetCurrentPhase,
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_tracking",
			mcp.WithDescription("Stop tracking until a phase is selected again"),
		),
		s.handleResetTracking,
	)

	historyTool := mcp.NewTool(
		"get_selection_history",
		mcp.WithDescription("Get recently journaled phase selections and per-phase counts"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of selections to return (default: 10)"),
		),
	)
	s.server.AddTool(historyTool, s.handleGetSelectionHistory)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// readingResult converts a phase reading to its JSON shape.
func readingResult(cycle domain.Cycle, reading domain.PhaseReading, ok bool) map[string]interface{} {
	if !ok {
		return map[string]interface{}{
			"tracking":      false,
			"current_phase": "N/A",
			"remaining":     "N/A",
		}
	}
	return map[string]interface{}{
		"tracking":          true,
		"current_phase":     reading.Name,
		"phase_number":      int(reading.Phase) + 1,
		"remaining":         domain.FormatRemaining(reading.Remaining),
		"remaining_seconds": reading.Remaining.Seconds(),
		"progress":          reading.Progress(),
		"next_phase":        cycle.Name(reading.Next()),
	}
}

func textResult(v interface{}, what string) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListPhases handles the list_phases tool.
func (s *Server) handleListPhases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cycle := s.stateProvider.Cycle()

	phases := make([]map[string]interface{}, 0, domain.PhaseCount)
	var start time.Duration
	for i, phase := range cycle {
		phases = append(phases, map[string]interface{}{
			"number":    i + 1,
			"name":      phase.Name,
			"ticks":     phase.Ticks,
			"seconds":   phase.Duration().Seconds(),
			"starts_at": start.Seconds(),
		})
		start += phase.Duration()
	}

	return textResult(map[string]interface{}{
		"phases":        phases,
		"cycle_seconds": cycle.Duration().Seconds(),
	}, "phases")
}

// handleSelectPhase handles the select_phase tool.
func (s *Server) handleSelectPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("phase")
	if err != nil {
		return mcp.NewToolResultError("phase is required: " + err.Error()), nil
	}

	phase, err := s.stateProvider.Resolve(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to select phase: %v", err)), nil
	}

	if _, err := s.stateProvider.Select(ctx, phase); err != nil {
		reading, ok := s.stateProvider.Current()
		if !ok || reading.Phase != phase {
			return mcp.NewToolResultError(fmt.Sprintf("failed to select phase: %v", err)), nil
		}
		result := readingResult(s.stateProvider.Cycle(), reading, ok)
		result["warning"] = err.Error()
		return textResult(result, "selection")
	}

	reading, ok := s.stateProvider.Current()
	return textResult(readingResult(s.stateProvider.Cycle(), reading, ok), "selection")
}

// handleGetCurrentPhase handles the get_current_phase tool.
func (s *Server) handleGetCurrentPhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reading, ok := s.stateProvider.Current()
	return textResult(readingResult(s.stateProvider.Cycle(), reading, ok), "reading")
}

// handleResetTracking handles the reset_tracking tool.
func (s *Server) handleResetTracking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.stateProvider.Reset()
	return mcp.NewToolResultText("Tracking stopped. Select a phase to start again."), nil
}

// handleGetSelectionHistory handles the get_selection_history tool.
func (s *Server) handleGetSelectionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	selections, err := s.stateProvider.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get selection history: %w", err)
	}
	tally, err := s.stateProvider.Tally(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count selections: %w", err)
	}

	history := make([]map[string]interface{}, 0, len(selections))
	for _, sel := range selections {
		history = append(history, map[string]interface{}{
			"id":          sel.ID,
			"phase":       sel.PhaseName,
			"selected_at": sel.SelectedAt.Format("2006-01-02T15:04:05.000"),
		})
	}

	counts := make(map[string]int, len(tally))
	for _, t := range tally {
		counts[t.PhaseName] = t.Count
	}

	return textResult(map[string]interface{}{
		"selections": history,
		"counts":     counts,
	}, "history")
}
