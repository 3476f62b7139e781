// Package mcp exposes the issue finder as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/analysis"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/filter"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/recommend"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

// Server wraps the issue source, evaluation engine and analysis generator
// and exposes them as MCP tools.
type Server struct {
	source    source.Source
	engine    *evaluate.Engine
	generator analysis.Generator
	version   string
}

// NewServer creates the MCP server wrapper.
func NewServer(src source.Source, engine *evaluate.Engine, gen analysis.Generator, version string) *Server {
	if engine == nil {
		engine = evaluate.NewEngine()
	}
	if gen == nil {
		gen = analysis.NewTemplateGenerator()
	}
	return &Server{source: src, engine: engine, generator: gen, version: version}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("issuefinder", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.searchTool())
	srv.AddTool(s.recommendTool())
	srv.AddTool(s.showTool())
	srv.AddTool(s.analyzeTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// issuefinder_search
func (s *Server) searchTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("issuefinder_search",
		mcp.WithDescription("Search open GitHub issues and return them evaluated with difficulty, score and tags, highest score first."),
		mcp.WithString("query", mcp.Description("Free-text query matched against title, body and labels")),
		mcp.WithString("repo", mcp.Description("Restrict to a repository (owner/repo)")),
		mcp.WithString("labels", mcp.Description("Require a GitHub label")),
		mcp.WithString("language", mcp.Description("Repository language")),
		mcp.WithString("difficulty", mcp.Description("Keep only this difficulty"), mcp.Enum("beginner", "intermediate", "advanced")),
		mcp.WithNumber("min_stars", mcp.Description("Minimum repository stars")),
		mcp.WithNumber("max_stars", mcp.Description("Maximum repository stars")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of issues returned (default 20)")),
	)
	return tool, s.handleSearch
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := model.SearchParams{
		Query:      request.GetString("query", ""),
		Repository: request.GetString("repo", ""),
		Labels:     request.GetString("labels", ""),
		Language:   request.GetString("language", ""),
	}

	criteria, errResult := criteriaFrom(request)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.source.Search(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	issues := filter.Apply(s.engine.EvaluateAndSort(result.Issues), criteria)
	if limit := request.GetInt("limit", 20); limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}

	return jsonResult(map[string]any{
		"total_count": result.TotalCount,
		"returned":    len(issues),
		"issues":      summarize(issues),
	})
}

// issuefinder_recommend
func (s *Server) recommendTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("issuefinder_recommend",
		mcp.WithDescription("Recommend a diverse, quality-skewed set of beginner-friendly issues from popular repositories."),
		mcp.WithNumber("limit", mcp.Description("Number of recommendations (default 12)")),
		mcp.WithNumber("page", mcp.Description("Popular listing page; page 1 is the first batch")),
	)
	return tool, s.handleRecommend
}

func (s *Server) handleRecommend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", recommend.DefaultLimit)
	page := request.GetInt("page", 1)

	var (
		raw []model.RawIssue
		err error
	)
	if page > 1 {
		raw, err = s.source.MorePopular(ctx, page, 20)
	} else {
		raw, err = s.source.Popular(ctx, 30)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch issues: %v", err)), nil
	}

	picked := recommend.Recommended(s.engine.EvaluateAndSort(raw), limit)
	return jsonResult(map[string]any{
		"page":   page,
		"issues": summarize(picked),
	})
}

// issuefinder_show
func (s *Server) showTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("issuefinder_show",
		mcp.WithDescription("Fetch one issue and evaluate it. With explain, every rule that contributed to its difficulty and score is listed."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue reference: owner/repo#number or an issue URL")),
		mcp.WithBoolean("explain", mcp.Description("Include the rule breakdown")),
	)
	return tool, s.handleShow
}

func (s *Server) handleShow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, errResult := s.fetch(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	out := map[string]any{"issue": s.engine.Evaluate(*raw)}
	if request.GetBool("explain", false) {
		out["explanation"] = s.engine.Explain(raw)
	}
	return jsonResult(out)
}

// issuefinder_analyze
func (s *Server) analyzeTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("issuefinder_analyze",
		mcp.WithDescription("Produce a structured analysis report for one issue: summary, technical analysis, solutions, time estimate and required skills."),
		mcp.WithString("issue", mcp.Required(), mcp.Description("Issue reference: owner/repo#number or an issue URL")),
	)
	return tool, s.handleAnalyze
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, errResult := s.fetch(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	issue := s.engine.Evaluate(*raw)
	a, err := s.generator.Generate(ctx, &issue)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"issue":    summarize([]model.EvaluatedIssue{issue})[0],
		"analysis": a,
	})
}

func (s *Server) fetch(ctx context.Context, request mcp.CallToolRequest) (*model.RawIssue, *mcp.CallToolResult) {
	refStr, err := request.RequireString("issue")
	if err != nil {
		return nil, mcp.NewToolResultError("missing required parameter: issue")
	}
	ref, err := model.ParseIssueRef(refStr)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	raw, err := s.source.Issue(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to fetch %s: %v", ref, err))
	}
	return raw, nil
}

func criteriaFrom(request mcp.CallToolRequest) (model.FilterCriteria, *mcp.CallToolResult) {
	var criteria model.FilterCriteria

	if d := request.GetString("difficulty", ""); d != "" {
		diff, ok := model.ParseDifficulty(d)
		if !ok {
			return criteria, mcp.NewToolResultError(fmt.Sprintf("invalid difficulty %q", d))
		}
		criteria.Difficulty = diff
	}

	args := request.GetArguments()
	if _, ok := args["min_stars"]; ok {
		n := request.GetInt("min_stars", 0)
		criteria.MinStars = &n
	}
	if _, ok := args["max_stars"]; ok {
		n := request.GetInt("max_stars", 0)
		criteria.MaxStars = &n
	}
	return criteria, nil
}

type issueOut struct {
	Ref        string           `json:"ref"`
	Title      string           `json:"title"`
	URL        string           `json:"url"`
	Difficulty model.Difficulty `json:"difficulty"`
	Score      int              `json:"score"`
	Tags       []string         `json:"tags"`
	Stars      int              `json:"stars"`
	Language   string           `json:"language,omitempty"`
	Labels     []string         `json:"labels,omitempty"`
	Comments   int              `json:"comments"`
	UpdatedAt  string           `json:"updated_at"`
}

func summarize(issues []model.EvaluatedIssue) []issueOut {
	out := make([]issueOut, len(issues))
	for i := range issues {
		issue := &issues[i]
		out[i] = issueOut{
			Ref:        issue.Ref().String(),
			Title:      issue.Title,
			URL:        issue.HTMLURL,
			Difficulty: issue.Difficulty,
			Score:      issue.Score,
			Tags:       issue.Tags,
			Stars:      issue.Repository.Stars,
			Language:   issue.Repository.Language,
			Labels:     issue.LabelNames(),
			Comments:   issue.Comments,
			UpdatedAt:  issue.UpdatedAt.Format(time.RFC3339),
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
