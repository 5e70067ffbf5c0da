// Package mcpserver exposes triage and the patient queue as MCP tools.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"er-triage/internal/queue"
	"er-triage/internal/triage"
)

type Server struct {
	engine    *triage.Engine
	queue     queue.Service
	mcpServer *server.MCPServer
}

func NewServer(engine *triage.Engine, q queue.Service) *Server {
	s := &Server{engine: engine, queue: q}
	s.mcpServer = server.NewMCPServer(
		"er-triage",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// Server returns the underlying MCP server.
func (s *Server) Server() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func formatQueue(recs []queue.PatientRecord) string {
	if len(recs) == 0 {
		return "# Patient queue\n\nThe queue is empty."
	}

	var b strings.Builder
	b.WriteString("# Patient queue\n\n")
	fmt.Fprintf(&b, "%d patients\n", len(recs))
	for i, r := range recs {
		fmt.Fprintf(&b, "\n%d. **%s**", i+1, r.ID)
		if r.Name != "" {
			fmt.Fprintf(&b, " %s", r.Name)
		}
		fmt.Fprintf(&b, " - priority %d (%s), %s, est. wait %d min", int(r.Priority), r.Priority, r.Status, r.EstimatedWaitTime)
	}
	return b.String()
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
