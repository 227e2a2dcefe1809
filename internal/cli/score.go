package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/discovery"
	"github.com/dotcommander/scorecard/internal/logging"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
	"golang.org/x/sync/errgroup"
)

// ScoreContext holds what a scoring run shares across files
type ScoreContext struct {
	Engine      *scoring.Engine
	Validator   *cue.Validator
	Concurrency int
	Logger      *slog.Logger
}

// NewScoreContext creates a ScoreContext with the CUE schemas loaded.
// A nil logger discards output.
func NewScoreContext(engine *scoring.Engine, concurrency int, logger *slog.Logger) (*ScoreContext, error) {
	validator := cue.NewValidator()
	if err := validator.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &ScoreContext{
		Engine:      engine,
		Validator:   validator,
		Concurrency: max(concurrency, 1),
		Logger:      logger,
	}, nil
}

// ScoreFiles scores every answer sheet concurrently. Per-file problems are
// recorded on the file's result; the returned error is only set when ctx is
// cancelled.
func (c *ScoreContext) ScoreFiles(ctx context.Context, files []discovery.File) (*ScoreSummary, error) {
	start := time.Now()
	results := make([]ScoreResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.scoreFile(file)
			c.Logger.Debug("scored file", "file", file.RelPath, "success", results[i].Success, "errors", len(results[i].Errors))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewScoreSummary(start, c.Engine.Catalog(), results), nil
}

// ScoreSheet scores an in-memory answer sheet labelled source.
func (c *ScoreContext) ScoreSheet(source string, sheet quiz.AnswerSheet) ScoreResult {
	start := time.Now()
	result := ScoreResult{
		File:    source,
		Lead:    sheet.Lead,
		Answers: sheet.Answers,
		Success: true,
	}

	if sheet.Lead != nil {
		normalized := sheet.Lead.Normalize()
		result.Lead = &normalized
	}

	scored, err := c.Engine.Calculate(sheet.Answers)
	if err != nil {
		result.Errors = toValidationErrors(source, err)
		result.Success = false
	} else {
		result.Result = &scored
	}
	result.Duration = time.Since(start).Milliseconds()
	return result
}

// scoreFile validates and scores a single answer sheet file.
func (c *ScoreContext) scoreFile(file discovery.File) ScoreResult {
	start := time.Now()
	fail := func(errs ...cue.ValidationError) ScoreResult {
		return ScoreResult{
			File:     file.RelPath,
			Errors:   errs,
			Duration: time.Since(start).Milliseconds(),
		}
	}

	if file.Type == discovery.FileTypeCatalog {
		return fail(cue.ValidationError{
			File:     file.RelPath,
			Message:  "file is a catalog, not an answer sheet",
			Severity: "error",
		})
	}

	schemaErrs, err := c.Validator.ValidateFile(file.RelPath, file.Contents, cue.KindAnswers)
	if err != nil {
		return fail(cue.ValidationError{File: file.RelPath, Message: err.Error(), Severity: "error"})
	}
	if hasErrors(schemaErrs) {
		return fail(schemaErrs...)
	}

	sheet, err := quiz.ParseAnswerSheet(file.Contents)
	if err != nil {
		return fail(cue.ValidationError{File: file.RelPath, Message: err.Error(), Severity: "error"})
	}

	result := c.ScoreSheet(file.RelPath, sheet)
	result.Duration = time.Since(start).Milliseconds()
	return result
}
