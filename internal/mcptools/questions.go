package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dotcommander/scorecard/internal/quiz"
)

// QuestionsTool handles the list_questions MCP tool.
type QuestionsTool struct {
	catalog *quiz.Catalog
}

// NewQuestionsTool creates a QuestionsTool for catalog.
func NewQuestionsTool(catalog *quiz.Catalog) *QuestionsTool {
	return &QuestionsTool{catalog: catalog}
}

// Definition returns the MCP tool definition for list_questions.
func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_questions",
		mcp.WithDescription(
			"List the assessment questions grouped by dimension, with the score of every option.",
		),
		withFormat(),
	)
}

// Handle processes the list_questions tool call.
func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	r, err := newRenderer(req.GetString("format", ""), &sb)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := r.FormatCatalog(t.catalog); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering questions: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
