package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w       io.Writer
	verbose bool
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool) *MarkdownFormatter {
	return &MarkdownFormatter{w: w, verbose: verbose}
}

// Format writes the scoring summary as Markdown
func (f *MarkdownFormatter) Format(summary *cli.ScoreSummary) error {
	var builder strings.Builder

	builder.WriteString("# AI Readiness Scorecard\n\n")
	fmt.Fprintf(&builder, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&builder, "**Duration:** %v\n\n", time.Since(summary.StartTime).Round(time.Millisecond))

	if summary.TotalFiles > 1 {
		builder.WriteString("## Summary\n\n")
		builder.WriteString("| Submission | Score | Band | Segment | Weakest |\n")
		builder.WriteString("|------------|-------|------|---------|---------|\n")
		for _, r := range summary.Results {
			if !r.Success {
				fmt.Fprintf(&builder, "| %s | %s | | | |\n", r.File, statusEmoji(false))
				continue
			}
			fmt.Fprintf(&builder, "| [%s](#%s) | %d | %s | %s | %s |\n", r.File, createAnchor(r.File),
				r.Result.OverallScore, r.Result.Band.Name, r.Result.Segment, r.Result.WeakestDimension)
		}
		builder.WriteString("\n")
	}

	if summary.TotalFiles == 0 {
		builder.WriteString("*No submissions found to score.*\n")
	}

	for _, r := range summary.Results {
		fmt.Fprintf(&builder, "## %s\n\n", r.File)
		if !r.Success {
			writeErrors(&builder, r.Errors)
			continue
		}
		f.writeResult(&builder, r, summary.OverallBenchmark)
	}

	_, err := io.WriteString(f.w, builder.String())
	return err
}

func (f *MarkdownFormatter) writeResult(b *strings.Builder, r cli.ScoreResult, benchmark int) {
	res := r.Result
	if r.Lead != nil {
		fmt.Fprintf(b, "**Company:** %s  \n", r.Lead.CompanyName)
	}
	fmt.Fprintf(b, "**Overall:** %d/100 (%s, benchmark %d)  \n", res.OverallScore, res.Band.Name, benchmark)
	fmt.Fprintf(b, "**Segment:** %s\n\n", res.Segment)
	if res.Band.Description != "" {
		fmt.Fprintf(b, "%s\n\n", res.Band.Description)
	}
	if res.Band.Action != "" {
		fmt.Fprintf(b, "> **Next step:** %s\n\n", res.Band.Action)
	}

	b.WriteString("| Dimension | Score | Raw | Gap |\n")
	b.WriteString("|-----------|-------|-----|-----|\n")
	for _, d := range res.Breakdown {
		name := string(d.Dimension)
		switch d.Dimension {
		case res.StrongestDimension:
			name += " ▲"
		case res.WeakestDimension:
			name += " ▼"
		}
		fmt.Fprintf(b, "| %s | %d | %d/%d | %d |\n", name, d.Score, d.Raw, d.Max, res.Gaps[d.Dimension])
	}
	b.WriteString("\n")

	if len(res.Priorities) > 0 {
		b.WriteString("### Priorities\n\n")
		for i, p := range res.Priorities {
			f.writePriority(b, i+1, p)
		}
		b.WriteString("\n")
	}
}

func (f *MarkdownFormatter) writePriority(b *strings.Builder, n int, p scoring.Priority) {
	title := p.Recommendation.Title
	if title == "" {
		title = string(p.Dimension)
	}
	fmt.Fprintf(b, "%d. **%s** (%s %d, benchmark %d)\n", n, title, p.Dimension, p.Score, p.Benchmark)
	if f.verbose && p.Recommendation.Text != "" {
		fmt.Fprintf(b, "   %s\n", p.Recommendation.Text)
	}
}

// FormatValidation writes the validation summary as Markdown
func (f *MarkdownFormatter) FormatValidation(summary *cli.ValidationSummary) error {
	var builder strings.Builder

	builder.WriteString("# Validation Report\n\n")
	builder.WriteString("| Metric | Count |\n")
	builder.WriteString("|--------|-------|\n")
	fmt.Fprintf(&builder, "| Files Checked | %d |\n", summary.TotalFiles)
	fmt.Fprintf(&builder, "| Valid | %d |\n", summary.SuccessfulFiles)
	fmt.Fprintf(&builder, "| Invalid | %d |\n", summary.FailedFiles)
	fmt.Fprintf(&builder, "| Errors | %d |\n\n", summary.TotalErrors)

	for _, r := range summary.Results {
		if r.Success && !f.verbose {
			continue
		}
		fmt.Fprintf(&builder, "## %s\n\n", r.File)
		fmt.Fprintf(&builder, "Status: %s\n\n", statusEmoji(r.Success))
		fmt.Fprintf(&builder, "Type: `%s`\n\n", r.Type)
		writeErrors(&builder, r.Errors)
	}

	if summary.FailedFiles == 0 {
		builder.WriteString("✓ All files passed validation!\n")
	} else {
		fmt.Fprintf(&builder, "✗ %d files failed validation\n", summary.FailedFiles)
	}

	_, err := io.WriteString(f.w, builder.String())
	return err
}

// FormatCatalog writes the questions as Markdown
func (f *MarkdownFormatter) FormatCatalog(catalog *quiz.Catalog) error {
	var builder strings.Builder
	builder.WriteString("# Questions\n\n")
	weights := catalog.Weights()
	for _, d := range catalog.Priority() {
		fmt.Fprintf(&builder, "## %s (weight %.2f)\n\n", d, weights[d])
		for _, q := range catalog.QuestionsFor(d) {
			fmt.Fprintf(&builder, "### %s. %s\n\n", q.ID, q.Text)
			for _, opt := range q.Options {
				fmt.Fprintf(&builder, "- %s (%d)\n", opt.Label, opt.Score)
			}
			builder.WriteString("\n")
		}
	}
	_, err := io.WriteString(f.w, builder.String())
	return err
}

// FormatBands writes the bands as a Markdown table
func (f *MarkdownFormatter) FormatBands(catalog *quiz.Catalog) error {
	var builder strings.Builder
	builder.WriteString("| Band | Range | Description |\n")
	builder.WriteString("|------|-------|-------------|\n")
	for _, b := range catalog.Bands() {
		fmt.Fprintf(&builder, "| %s | %d-%d | %s |\n", b.Name, b.Min, b.Max, b.Description)
	}
	_, err := io.WriteString(f.w, builder.String())
	return err
}

func writeErrors(b *strings.Builder, errs []cue.ValidationError) {
	if len(errs) == 0 {
		return
	}
	b.WriteString("#### Errors\n\n")
	for _, e := range errs {
		fmt.Fprintf(b, "- %s", e.Message)
		if e.Path != "" {
			fmt.Fprintf(b, " `%s`", e.Path)
		}
		if e.Line > 0 {
			fmt.Fprintf(b, " (line %d)", e.Line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// statusEmoji returns an emoji for the status
func statusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
