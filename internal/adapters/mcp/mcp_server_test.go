package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/eclipse-cli/internal/domain"
)

// mockStateProvider is a mock implementation of ports.MCPStateProvider for testing.
type mockStateProvider struct {
	state      domain.CycleState
	now        time.Time
	selectErr  error
	selections []*domain.Selection
	tally      []domain.PhaseTally
	historyErr error
}

func newMockStateProvider() *mockStateProvider {
	return &mockStateProvider{now: time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)}
}

func (m *mockStateProvider) Cycle() domain.Cycle {
	return domain.EclipseCycle
}

func (m *mockStateProvider) Select(ctx context.Context, phase domain.PhaseIndex) (domain.CycleState, error) {
	next, err := m.state.SetPhase(phase, m.now)
	if err != nil {
		return m.state, err
	}
	m.state = next
	return next, m.selectErr
}

func (m *mockStateProvider) Current() (domain.PhaseReading, bool) {
	return domain.EclipseCycle.ComputeCurrentPhase(m.state, m.now)
}

func (m *mockStateProvider) Reset() {
	m.state = domain.CycleState{}
}

func (m *mockStateProvider) Resolve(input string) (domain.PhaseIndex, error) {
	for i, name := range domain.EclipseCycle.Names() {
		if strings.EqualFold(name, input) {
			return domain.PhaseIndex(i), nil
		}
	}
	return 0, errors.New("unknown phase")
}

func (m *mockStateProvider) History(ctx context.Context, limit int) ([]*domain.Selection, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if len(m.selections) > limit {
		return m.selections[:limit], nil
	}
	return m.selections, nil
}

func (m *mockStateProvider) Tally(ctx context.Context) ([]domain.PhaseTally, error) {
	return m.tally, nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) == 0 {
		t.Fatal("empty content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, result)), &out); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	return out
}

func withArgs(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func TestNewServer(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock, "test")

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}
	if server.stateProvider != mock {
		t.Error("NewServer() did not set state provider correctly")
	}
	if server.server == nil {
		t.Error("NewServer() did not create MCP server")
	}
}

func TestServer_IsRunning(t *testing.T) {
	server := NewServer(newMockStateProvider(), "test")

	if server.IsRunning() {
		t.Error("IsRunning() should return false before Start()")
	}
}

func TestServer_handleListPhases(t *testing.T) {
	server := NewServer(newMockStateProvider(), "test")

	result, err := server.handleListPhases(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListPhases() error = %v", err)
	}

	out := decode(t, result)
	phases, ok := out["phases"].([]interface{})
	if !ok || len(phases) != domain.PhaseCount {
		t.Fatalf("phases = %v, want %d entries", out["phases"], domain.PhaseCount)
	}
	last := phases[3].(map[string]interface{})
	if last["name"] != "Shield" {
		t.Errorf("last phase = %v, want Shield", last["name"])
	}
	if last["starts_at"].(float64) != 75.6 {
		t.Errorf("Shield starts_at = %v, want 75.6", last["starts_at"])
	}
	if out["cycle_seconds"].(float64) != 111.6 {
		t.Errorf("cycle_seconds = %v, want 111.6", out["cycle_seconds"])
	}
}

func TestServer_handleGetCurrentPhase_Unset(t *testing.T) {
	server := NewServer(newMockStateProvider(), "test")

	result, err := server.handleGetCurrentPhase(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetCurrentPhase() error = %v", err)
	}

	out := decode(t, result)
	if out["tracking"] != false {
		t.Error("tracking should be false before any selection")
	}
	if out["current_phase"] != "N/A" {
		t.Errorf("current_phase = %v, want N/A", out["current_phase"])
	}
}

func TestServer_handleSelectPhase(t *testing.T) {
	mock := newMockStateProvider()
	server := NewServer(mock, "test")

	result, err := server.handleSelectPhase(context.Background(), withArgs(map[string]interface{}{
		"phase": "clones",
	}))
	if err != nil {
		t.Fatalf("handleSelectPhase() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleSelectPhase() returned error result: %s", resultText(t, result))
	}

	mock.now = mock.now.Add(50 * time.Second)
	result, err = server.handleGetCurrentPhase(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleGetCurrentPhase() error = %v", err)
	}

	out := decode(t, result)
	if out["current_phase"] != "Post-Clones" {
		t.Errorf("current_phase = %v, want Post-Clones", out["current_phase"])
	}
	if out["remaining"] != "7.6 sec" {
		t.Errorf("remaining = %v, want 7.6 sec", out["remaining"])
	}
	if out["next_phase"] != "Shield" {
		t.Errorf("next_phase = %v, want Shield", out["next_phase"])
	}
}

func TestServer_handleSelectPhase_Errors(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing phase", map[string]interface{}{}},
		{"unknown phase", map[string]interface{}{"phase": "enrage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(newMockStateProvider(), "test")
			result, err := server.handleSelectPhase(context.Background(), withArgs(tt.args))
			if err != nil {
				t.Fatalf("handleSelectPhase() error = %v", err)
			}
			if !result.IsError {
				t.Error("handleSelectPhase() should return an error result")
			}
		})
	}
}

func TestServer_handleSelectPhase_JournalWarning(t *testing.T) {
	mock := newMockStateProvider()
	mock.selectErr = errors.New("failed to journal selection: disk full")
	server := NewServer(mock, "test")

	result, err := server.handleSelectPhase(context.Background(), withArgs(map[string]interface{}{
		"phase": "shield",
	}))
	if err != nil {
		t.Fatalf("handleSelectPhase() error = %v", err)
	}
	if result.IsError {
		t.Fatal("journal failure should not fail the selection")
	}

	out := decode(t, result)
	if out["current_phase"] != "Shield" {
		t.Errorf("current_phase = %v, want Shield", out["current_phase"])
	}
	if !strings.Contains(out["warning"].(string), "disk full") {
		t.Errorf("warning = %v, want journal error", out["warning"])
	}
}

func TestServer_handleResetTracking(t *testing.T) {
	mock := newMockStateProvider()
	_, _ = mock.Select(context.Background(), domain.PhaseShield)
	server := NewServer(mock, "test")

	if _, err := server.handleResetTracking(context.Background(), mcp.CallToolRequest{}); err != nil {
		t.Fatalf("handleResetTracking() error = %v", err)
	}
	if _, ok := mock.Current(); ok {
		t.Error("tracking should stop after reset")
	}
}

func TestServer_handleGetSelectionHistory(t *testing.T) {
	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	first, _ := domain.NewSelection(domain.EclipseCycle, domain.PhaseClones, at)
	second, _ := domain.NewSelection(domain.EclipseCycle, domain.PhaseShield, at.Add(time.Minute))

	mock := newMockStateProvider()
	mock.selections = []*domain.Selection{second, first}
	mock.tally = []domain.PhaseTally{
		{Phase: domain.PhaseClones, PhaseName: "Clones", Count: 1},
		{Phase: domain.PhaseShield, PhaseName: "Shield", Count: 1},
	}
	server := NewServer(mock, "test")

	result, err := server.handleGetSelectionHistory(context.Background(), withArgs(map[string]interface{}{
		"limit": float64(1),
	}))
	if err != nil {
		t.Fatalf("handleGetSelectionHistory() error = %v", err)
	}

	out := decode(t, result)
	selections := out["selections"].([]interface{})
	if len(selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(selections))
	}
	if selections[0].(map[string]interface{})["phase"] != "Shield" {
		t.Errorf("first selection = %v, want most recent (Shield)", selections[0])
	}
	counts := out["counts"].(map[string]interface{})
	if counts["Clones"].(float64) != 1 {
		t.Errorf("counts = %v, want Clones: 1", counts)
	}
}

func TestServer_handleGetSelectionHistory_InvalidLimit(t *testing.T) {
	server := NewServer(newMockStateProvider(), "test")

	result, err := server.handleGetSelectionHistory(context.Background(), withArgs(map[string]interface{}{
		"limit": float64(0),
	}))
	if err != nil {
		t.Fatalf("handleGetSelectionHistory() error = %v", err)
	}
	if !result.IsError {
		t.Error("zero limit should return an error result")
	}
}

func TestServer_handleGetSelectionHistory_StorageError(t *testing.T) {
	mock := newMockStateProvider()
	mock.historyErr = errors.New("db closed")
	server := NewServer(mock, "test")

	if _, err := server.handleGetSelectionHistory(context.Background(), mcp.CallToolRequest{}); err == nil {
		t.Error("storage failure should return an error")
	}
}
