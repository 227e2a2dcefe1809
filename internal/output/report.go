package output

import (
	"time"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// Tool identifies the producer in machine-readable reports.
const Tool = "scorecard"

// Version is stamped into report headers. Overridden at build time.
var Version = "dev"

// Report is the machine-readable form of a scoring run, shared by the JSON
// and YAML formatters.
type Report struct {
	Header  Header         `json:"header" yaml:"header"`
	Summary ReportSummary  `json:"summary" yaml:"summary"`
	Results []ReportResult `json:"results" yaml:"results"`
}

// Header contains report metadata
type Header struct {
	Tool      string `json:"tool" yaml:"tool"`
	Version   string `json:"version" yaml:"version"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// ReportSummary contains summary statistics
type ReportSummary struct {
	TotalFiles       int    `json:"total_files" yaml:"total_files"`
	SuccessfulFiles  int    `json:"successful_files" yaml:"successful_files"`
	FailedFiles      int    `json:"failed_files" yaml:"failed_files"`
	TotalErrors      int    `json:"total_errors" yaml:"total_errors"`
	OverallBenchmark int    `json:"overall_benchmark,omitempty" yaml:"overall_benchmark,omitempty"`
	Duration         string `json:"duration" yaml:"duration"`
}

// ReportResult is a single answer sheet's outcome
type ReportResult struct {
	File     string                `json:"file" yaml:"file"`
	Success  bool                  `json:"success" yaml:"success"`
	Duration int64                 `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Lead     *lead.Lead            `json:"lead,omitempty" yaml:"lead,omitempty"`
	Answers  quiz.Answers          `json:"answers,omitempty" yaml:"answers,omitempty"`
	Score    *scoring.ScoreResult  `json:"score,omitempty" yaml:"score,omitempty"`
	Errors   []cue.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ValidationReport is the machine-readable form of a validation run
type ValidationReport struct {
	Header  Header                 `json:"header" yaml:"header"`
	Summary ReportSummary          `json:"summary" yaml:"summary"`
	Results []cli.ValidationResult `json:"results" yaml:"results"`
}

func newHeader() Header {
	return Header{
		Tool:      Tool,
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewReport converts a scoring summary into its report form.
func NewReport(summary *cli.ScoreSummary) Report {
	report := Report{
		Header: newHeader(),
		Summary: ReportSummary{
			TotalFiles:       summary.TotalFiles,
			SuccessfulFiles:  summary.SuccessfulFiles,
			FailedFiles:      summary.FailedFiles,
			TotalErrors:      summary.TotalErrors,
			OverallBenchmark: summary.OverallBenchmark,
			Duration:         time.Since(summary.StartTime).Round(time.Millisecond).String(),
		},
		Results: make([]ReportResult, len(summary.Results)),
	}
	for i, r := range summary.Results {
		report.Results[i] = ReportResult{
			File:     r.File,
			Success:  r.Success,
			Duration: r.Duration,
			Lead:     r.Lead,
			Answers:  r.Answers,
			Score:    r.Result,
			Errors:   r.Errors,
		}
	}
	return report
}

// NewValidationReport converts a validation summary into its report form.
func NewValidationReport(summary *cli.ValidationSummary) ValidationReport {
	return ValidationReport{
		Header: newHeader(),
		Summary: ReportSummary{
			TotalFiles:      summary.TotalFiles,
			SuccessfulFiles: summary.SuccessfulFiles,
			FailedFiles:     summary.FailedFiles,
			TotalErrors:     summary.TotalErrors,
			Duration:        time.Since(summary.StartTime).Round(time.Millisecond).String(),
		},
		Results: summary.Results,
	}
}
