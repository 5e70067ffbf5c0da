package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"er-triage/internal/analytics"
	"er-triage/internal/queue"
	"er-triage/internal/triage"
)

func newTestServer(t *testing.T) (*Server, queue.Service) {
	t.Helper()
	engine, err := triage.NewEngine()
	require.NoError(t, err)
	svc := queue.NewService(queue.NewMemoryRepository(), engine)
	return NewServer(engine, svc), svc
}

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestServerRegistersTools(t *testing.T) {
	s, _ := newTestServer(t)
	assert.NotNil(t, s.Server())
	assert.NotNil(t, s.HTTPHandler())
}

func TestAssessTool(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.handleAssess(context.Background(), call(map[string]any{
		triage.PainLevel:           10.0,
		triage.BreathingDifficulty: 10.0,
		triage.ConsciousnessLevel:  10.0,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var a triage.Assessment
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &a))
	assert.Equal(t, triage.LevelCritical, a.Priority)
	assert.InDelta(t, 98.6667, a.Score, 1e-3)

	res, err = s.handleAssess(context.Background(), call(map[string]any{triage.PainLevel: 11.0}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAdmitAndListTools(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAdmit(ctx, call(map[string]any{
		"name":                    "Ann",
		"age":                     42.0,
		triage.ConsciousnessLevel: 5.0,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "PAT-1")
	assert.Contains(t, resultText(t, res), "Estimated wait: 30 min")

	rec, err := svc.Get(ctx, "PAT-1")
	require.NoError(t, err)
	require.NotNil(t, rec.Age)
	assert.Equal(t, 42, *rec.Age)
	assert.Equal(t, triage.LevelMedium, rec.Priority)

	res, err = s.handleAdmit(ctx, call(map[string]any{}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	rec, err = svc.Get(ctx, "PAT-2")
	require.NoError(t, err)
	assert.Nil(t, rec.Age)

	res, err = s.handleListQueue(ctx, call(nil))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "2 patients")
	assert.Contains(t, text, "1. **PAT-1** Ann")
	assert.Contains(t, text, "2. **PAT-2**")
}

func TestUpdateStatusTool(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()
	_, err := svc.Admit(ctx, queue.AdmitRequest{Symptoms: triage.NewSymptoms(0, 0, 0)})
	require.NoError(t, err)

	res, err := s.handleUpdateStatus(ctx, call(map[string]any{"id": "PAT-1", "status": "in-progress"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "PAT-1 is now in-progress.", resultText(t, res))

	res, err = s.handleUpdateStatus(ctx, call(map[string]any{"id": "PAT-9", "status": "completed"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "not found")

	res, err = s.handleUpdateStatus(ctx, call(map[string]any{"id": "PAT-1"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAnalyticsTool(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()
	for _, c := range []float64{10, 0} {
		_, err := svc.Admit(ctx, queue.AdmitRequest{Symptoms: triage.NewSymptoms(c, c, c)})
		require.NoError(t, err)
	}

	res, err := s.handleAnalytics(ctx, call(nil))
	require.NoError(t, err)
	var sum analytics.Summary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &sum))
	assert.Equal(t, 2, sum.TotalPatients)
	assert.Equal(t, 1, sum.CriticalPatients)
	assert.Equal(t, 2, sum.WaitingPatients)
}

func TestFormatEmptyQueue(t *testing.T) {
	assert.Contains(t, formatQueue(nil), "The queue is empty.")
}
