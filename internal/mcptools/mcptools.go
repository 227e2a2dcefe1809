// Package mcptools exposes the scoring engine as MCP tools so assistants can
// score an assessment or walk a visitor through the questions.
package mcptools

import (
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/output"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

const instructions = `Scores the AI Readiness Scorecard. Call list_questions to get the
questions and the score of every option, ask the visitor each question, then pass the
selected option scores keyed by question id to score_assessment.`

// NewServer registers every tool on a new MCP server.
func NewServer(engine *scoring.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"scorecard",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	scoreTool := NewScoreTool(engine)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	questionsTool := NewQuestionsTool(engine.Catalog())
	s.AddTool(questionsTool.Definition(), questionsTool.Handle)

	return s
}

// renderer is the part of the output formatters the tools use.
type renderer interface {
	Format(summary *cli.ScoreSummary) error
	FormatCatalog(catalog *quiz.Catalog) error
}

func newRenderer(format string, w io.Writer) (renderer, error) {
	switch format {
	case "", "markdown":
		return output.NewMarkdownFormatter(w, true), nil
	case "json":
		return output.NewJSONFormatter(w, true), nil
	case "yaml":
		return output.NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use markdown, json or yaml", format)
	}
}

func withFormat() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format: markdown (default), json or yaml"),
		mcp.Enum("markdown", "json", "yaml"),
	)
}
