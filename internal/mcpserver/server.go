// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes viewer tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/schedule"
	"github.com/starford/raidho/internal/viewer"
)

// Server wraps the MCP server with viewer tools.
type Server struct {
	mcp      *server.MCPServer
	loader   *viewer.Loader
	ctrl     *viewer.Controller
	db       index.EventIndex
	projects []models.Project
}

// New creates a new MCP server with all viewer tools registered.
// db may be nil when no schedule index is configured.
func New(loader *viewer.Loader, ctrl *viewer.Controller, db index.EventIndex, projects []models.Project) *Server {
	s := &Server{loader: loader, ctrl: ctrl, db: db, projects: projects}

	s.mcp = server.NewMCPServer(
		"Raidho",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List the configured construction projects."),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("load_project",
		mcp.WithDescription("Start loading a project's model set and schedule. "+
			"The load runs in the background; poll viewer_state for progress."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project code (see list_projects)")),
	), s.loadProject)

	s.mcp.AddTool(mcp.NewTool("viewer_state",
		mcp.WithDescription("Get the current viewer state: visible model, timeline highlight, "+
			"autoplay and rotation flags."),
	), s.viewerState)

	s.mcp.AddTool(mcp.NewTool("show_model",
		mcp.WithDescription("Show the model at the given index. The index is clamped to the loaded range."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based model index")),
	), s.showModel)

	s.mcp.AddTool(mcp.NewTool("schedule_events",
		mcp.WithDescription("List the timeline events of a project's construction schedule."),
		mcp.WithString("project", mcp.Description("Project code (defaults to the displayed project)")),
	), s.scheduleEvents)

	s.mcp.AddTool(mcp.NewTool("search_schedule",
		mcp.WithDescription("Search schedule events by member name, note text, or model filename."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("project", mcp.Description("Project code (defaults to the displayed project)")),
	), s.searchSchedule)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var lines []string
	for _, p := range s.projects {
		lines = append(lines, fmt.Sprintf("%s\t%s", p.Code, p.DisplayName))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no projects configured"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) loadProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, p := range s.projects {
		if p.Code == code {
			if err := s.loader.Start(p, nil); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("loading: %s", code)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown project: %s", code)), nil
}

func (s *Server) viewerState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.ctrl.Snapshot(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) showModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.ctrl.ShowModelAt(i)
	snap := s.ctrl.Snapshot()
	if snap.ModelCount == 0 {
		return mcp.NewToolResultError("no project loaded"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("showing model %d of %d: %s", snap.ModelIndex, snap.ModelCount, snap.ModelName)), nil
}

func (s *Server) scheduleEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.db == nil {
		return mcp.NewToolResultError("schedule index not configured"), nil
	}
	code := req.GetString("project", "")
	if code == "" {
		code = s.ctrl.Snapshot().Project
	}
	if code == "" {
		return mcp.NewToolResultError("no project loaded"), nil
	}
	events, err := s.db.Events(code)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("no schedule events"), nil
	}
	var lines []string
	for _, ev := range events {
		lines = append(lines, fmt.Sprintf("%d\t%s\t%s", ev.Index, ev.Date, schedule.Label(ev)))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) searchSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.db == nil {
		return mcp.NewToolResultError("schedule index not configured"), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	code := req.GetString("project", "")
	if code == "" {
		code = s.ctrl.Snapshot().Project
	}
	results, err := s.db.Search(code, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
