package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"er-triage/internal/analytics"
	"er-triage/internal/queue"
	"er-triage/internal/triage"
)

func symptomParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber(triage.PainLevel,
			mcp.Description("Pain severity from 0 (none) to 10 (worst)"),
			mcp.Min(0), mcp.Max(10),
		),
		mcp.WithNumber(triage.BreathingDifficulty,
			mcp.Description("Breathing difficulty from 0 to 10"),
			mcp.Min(0), mcp.Max(10),
		),
		mcp.WithNumber(triage.ConsciousnessLevel,
			mcp.Description("Impairment of consciousness from 0 (alert) to 10 (unresponsive)"),
			mcp.Min(0), mcp.Max(10),
		),
	}
}

func (s *Server) registerTools() {
	assessTool := mcp.NewTool("assess_priority",
		append([]mcp.ToolOption{
			mcp.WithDescription("Score symptoms with the triage rule base without admitting the patient"),
		}, symptomParams()...)...,
	)
	s.mcpServer.AddTool(assessTool, s.handleAssess)

	admitTool := mcp.NewTool("admit_patient",
		append([]mcp.ToolOption{
			mcp.WithDescription("Admit a patient to the queue; returns the id, priority and estimated wait"),
			mcp.WithString("name", mcp.Description("Patient name")),
			mcp.WithNumber("age", mcp.Description("Age in years"), mcp.Min(0)),
		}, symptomParams()...)...,
	)
	s.mcpServer.AddTool(admitTool, s.handleAdmit)

	listTool := mcp.NewTool("list_queue",
		mcp.WithDescription("List the queue in treatment order: waiting first, then in progress, then completed, each by priority"),
	)
	s.mcpServer.AddTool(listTool, s.handleListQueue)

	statusTool := mcp.NewTool("update_patient_status",
		mcp.WithDescription("Change the status of an admitted patient"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Patient id, e.g. PAT-3")),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status"),
			mcp.Enum(string(queue.StatusWaiting), string(queue.StatusInProgress), string(queue.StatusCompleted)),
		),
	)
	s.mcpServer.AddTool(statusTool, s.handleUpdateStatus)

	analyticsTool := mcp.NewTool("queue_analytics",
		mcp.WithDescription("Summary statistics of the queue: counts by status and priority, average wait, age groups, top symptoms"),
	)
	s.mcpServer.AddTool(analyticsTool, s.handleAnalytics)
}

func symptomsFrom(request mcp.CallToolRequest) triage.Symptoms {
	return triage.NewSymptoms(
		request.GetFloat(triage.PainLevel, 0),
		request.GetFloat(triage.BreathingDifficulty, 0),
		request.GetFloat(triage.ConsciousnessLevel, 0),
	)
}

func (s *Server) handleAssess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := s.engine.Assess(symptomsFrom(request))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("assessment failed: %v", err)), nil
	}
	out, err := toJSON(a)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleAdmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := queue.AdmitRequest{
		Name:     request.GetString("name", ""),
		Symptoms: symptomsFrom(request),
	}
	if _, ok := request.GetArguments()["age"]; ok {
		age := int(request.GetFloat("age", 0))
		req.Age = &age
	}

	rec, err := s.queue.Admit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to admit patient: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Admitted %s with priority %d (%s), score %.1f. Estimated wait: %d min.",
		rec.ID, int(rec.Priority), rec.Priority, rec.Score, rec.EstimatedWaitTime,
	)), nil
}

func (s *Server) handleListQueue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.queue.ListOrdered(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list queue: %v", err)), nil
	}
	return mcp.NewToolResultText(formatQueue(recs)), nil
}

func (s *Server) handleUpdateStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	status := request.GetString("status", "")
	if id == "" || status == "" {
		return mcp.NewToolResultError("id and status parameters required"), nil
	}

	rec, err := s.queue.SetStatus(ctx, id, queue.Status(status))
	if errors.Is(err, queue.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("patient %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update status: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s.", rec.ID, rec.Status)), nil
}

func (s *Server) handleAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := s.queue.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read queue: %v", err)), nil
	}
	out, err := toJSON(analytics.Summarize(recs))
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(out), nil
}
