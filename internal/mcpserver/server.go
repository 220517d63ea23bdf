// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the project catalog to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/query"
)

const (
	serverName    = "Folio"
	serverVersion = "1.0.0"

	catalogFormatURI = "folio://catalog-format"
	searchLimit      = 20
)

// Server wraps the MCP server with catalog tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolio.Service
}

// ListProjectsInput is the argument shape of list_projects.
type ListProjectsInput struct {
	Module string `json:"module"`
	Tag    string `json:"tag"`
	Query  string `json:"query"`
}

// FeaturedInput is the argument shape of featured_projects.
type FeaturedInput struct {
	Limit int `json:"limit"`
}

// SearchInput is the argument shape of search_projects.
type SearchInput struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// New creates an MCP server with all catalog tools registered.
func New(svc *portfolio.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List projects in catalog order, filtered by module, exact tag, "+
			"and a case-insensitive substring of title, subtitle and tags. Omitted filters mean All."),
		mcp.WithString("module", mcp.Description("Module name, or All")),
		mcp.WithString("tag", mcp.Description("Exact, case-sensitive tag, or All")),
		mcp.WithString("query", mcp.Description("Free-text filter")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Return the full record of one project."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id (e.g. P1)")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("featured_projects",
		mcp.WithDescription("Return ranked projects in ascending featuredRank order."),
		mcp.WithNumber("limit", mcp.Description("Max projects; defaults to the configured featured limit"), mcp.Min(0)),
	), s.featuredProjects)

	s.mcp.AddTool(mcp.NewTool("list_modules",
		mcp.WithDescription("List the module universe in declaration order."),
	), s.listModules)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag used by at least one project, sorted."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("search_projects",
		mcp.WithDescription("Full-text search over project write-ups: description, skills, "+
			"deliverables, and section text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)"), mcp.Min(0)),
	), s.searchProjects)

	s.mcp.AddTool(mcp.NewTool("get_catalog_format",
		mcp.WithDescription("Returns the catalog document format. "+
			"Read it before proposing edits to catalog files."),
	), s.getCatalogFormat)

	s.mcp.AddResource(
		mcp.NewResource(catalogFormatURI, "Catalog Format",
			mcp.WithResourceDescription("YAML and Markdown formats accepted for catalog documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCatalogFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encode result", err), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in ListProjectsInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid list_projects arguments", err), nil
	}
	sel := query.Selection{Module: in.Module, Tag: in.Tag, Query: in.Query}
	return jsonResult(s.svc.Projects(ctx, sel))
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.Project(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

func (s *Server) featuredProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in FeaturedInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid featured_projects arguments", err), nil
	}
	return jsonResult(s.svc.Featured(ctx, in.Limit))
}

func (s *Server) listModules(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Modules(ctx))
}

func (s *Server) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Tags(ctx))
}

func (s *Server) searchProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in SearchInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("invalid search_projects arguments", err), nil
	}
	if in.Query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	if in.Limit <= 0 {
		in.Limit = searchLimit
	}
	results, err := s.svc.Search(ctx, in.Query, in.Limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getCatalogFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CatalogFormatContract), nil
}

func (s *Server) readCatalogFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      catalogFormatURI,
			MIMEType: "text/markdown",
			Text:     CatalogFormatContract,
		},
	}, nil
}
