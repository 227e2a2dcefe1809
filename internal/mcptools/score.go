package mcptools

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// ScoreTool handles the score_assessment MCP tool.
type ScoreTool struct {
	engine *scoring.Engine
}

// NewScoreTool creates a ScoreTool backed by engine.
func NewScoreTool(engine *scoring.Engine) *ScoreTool {
	return &ScoreTool{engine: engine}
}

// Definition returns the MCP tool definition for score_assessment.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_assessment",
		mcp.WithDescription(
			"Score a completed AI readiness assessment. Returns the overall score, band, "+
				"maturity segment, per-dimension scores and the top priorities.",
		),
		mcp.WithObject("answers",
			mcp.Required(),
			mcp.Description(`Selected option score per question id, e.g. {"q1": 20, "q2": 10}. Unanswered questions count as 0.`),
		),
		withFormat(),
	)
}

// Handle processes the score_assessment tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answers, err := answersArg(req.GetArguments()["answers"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	r, err := newRenderer(req.GetString("format", ""), &sb)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.engine.Calculate(answers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid answers:\n%v", err)), nil
	}

	summary := cli.NewScoreSummary(time.Now(), t.engine.Catalog(), []cli.ScoreResult{{
		File:    "assessment",
		Answers: answers,
		Result:  &result,
		Success: true,
	}})
	if err := r.Format(summary); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rendering result: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// answersArg converts the decoded JSON object into Answers. JSON numbers
// arrive as float64 and must be whole.
func answersArg(raw any) (quiz.Answers, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("answers must be an object mapping question ids to scores")
	}
	answers := make(quiz.Answers, len(obj))
	for id, v := range obj {
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, fmt.Errorf("answer %q: score must be a whole number, got %v", id, v)
		}
		answers[id] = int(n)
	}
	return answers, nil
}
