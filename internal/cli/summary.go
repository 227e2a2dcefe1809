// Package cli runs scoring and validation over batches of documents and
// summarizes the outcome for the report formatters.
package cli

import (
	"errors"
	"slices"
	"time"

	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// ScoreResult is the outcome of scoring one answer sheet
type ScoreResult struct {
	File     string
	Lead     *lead.Lead
	Answers  quiz.Answers
	Result   *scoring.ScoreResult
	Errors   []cue.ValidationError
	Success  bool
	Duration int64 // milliseconds
}

// ScoreSummary summarizes a scoring run
type ScoreSummary struct {
	StartTime        time.Time
	OverallBenchmark int
	TotalFiles       int
	SuccessfulFiles  int
	FailedFiles      int
	TotalErrors      int
	Results          []ScoreResult
}

// NewScoreSummary totals results. Results keep their order.
func NewScoreSummary(start time.Time, catalog *quiz.Catalog, results []ScoreResult) *ScoreSummary {
	summary := &ScoreSummary{
		StartTime:  start,
		TotalFiles: len(results),
		Results:    results,
	}
	if catalog != nil {
		summary.OverallBenchmark = catalog.OverallBenchmark()
	}
	for _, r := range results {
		if r.Success {
			summary.SuccessfulFiles++
		} else {
			summary.FailedFiles++
		}
		summary.TotalErrors += len(r.Errors)
	}
	return summary
}

// ValidationResult is the outcome of validating one document
type ValidationResult struct {
	File    string                `json:"file" yaml:"file"`
	Type    string                `json:"type" yaml:"type"`
	Errors  []cue.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Success bool                  `json:"success" yaml:"success"`
}

// ValidationSummary summarizes a validation run
type ValidationSummary struct {
	StartTime       time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalErrors     int
	Results         []ValidationResult
}

// NewValidationSummary totals results. Results keep their order.
func NewValidationSummary(start time.Time, results []ValidationResult) *ValidationSummary {
	summary := &ValidationSummary{
		StartTime:  start,
		TotalFiles: len(results),
		Results:    results,
	}
	for _, r := range results {
		if r.Success {
			summary.SuccessfulFiles++
		} else {
			summary.FailedFiles++
		}
		summary.TotalErrors += len(r.Errors)
	}
	return summary
}

// toValidationErrors flattens joined and wrapped errors into one
// ValidationError per leaf. The ErrInvalidCatalog marker is dropped.
func toValidationErrors(file string, err error) []cue.ValidationError {
	var out []cue.ValidationError
	for _, leaf := range flatten(err) {
		if leaf == quiz.ErrInvalidCatalog {
			continue
		}
		out = append(out, cue.ValidationError{
			File:     file,
			Message:  leaf.Error(),
			Severity: "error",
		})
	}
	return out
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// hasErrors reports whether any of errs is an error rather than a warning
func hasErrors(errs []cue.ValidationError) bool {
	return slices.ContainsFunc(errs, func(e cue.ValidationError) bool {
		return e.Severity != "warning"
	})
}

// ErrNoInput is returned when there is nothing to score.
var ErrNoInput = errors.New("no answers given: pass answer files or --answer flags")
