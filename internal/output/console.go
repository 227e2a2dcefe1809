package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

const barWidth = 20

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	w         io.Writer
	quiet     bool
	verbose   bool
	colorize  bool
	startTime time.Time
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(w io.Writer, quiet, verbose, colorize bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:         w,
		quiet:     quiet,
		verbose:   verbose,
		colorize:  colorize,
		startTime: time.Now(),
	}
}

func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// bandColor maps a score to red, yellow, cyan or green
func bandColor(score int) string {
	switch {
	case score >= 80:
		return "10" // green
	case score >= 60:
		return "14" // cyan
	case score >= 35:
		return "11" // yellow
	default:
		return "9" // red
	}
}

// Format writes a scoring run
func (f *ConsoleFormatter) Format(summary *cli.ScoreSummary) error {
	if f.quiet {
		return nil
	}

	if summary.TotalFiles > 1 {
		f.printBatchTable(summary)
	}

	for _, result := range summary.Results {
		if !result.Success {
			f.printFailure(result.File, result.Errors)
			continue
		}
		if summary.TotalFiles > 1 && !f.verbose {
			continue
		}
		f.printReport(result, summary.OverallBenchmark)
	}

	if summary.TotalFiles > 1 {
		fmt.Fprintf(f.w, "\n%d/%d scored, %d errors (%v)\n",
			summary.SuccessfulFiles, summary.TotalFiles, summary.TotalErrors,
			time.Since(f.startTime).Round(time.Millisecond))
	}
	return nil
}

// printBatchTable prints one aligned line per file
func (f *ConsoleFormatter) printBatchTable(summary *cli.ScoreSummary) {
	width := 0
	for _, r := range summary.Results {
		width = max(width, len(r.File))
	}

	dim := f.style("8")
	for _, r := range summary.Results {
		padding := strings.Repeat(" ", width-len(r.File))
		if !r.Success {
			fmt.Fprintf(f.w, "%s %s%s  %s\n", f.style("9").Render("✗"), r.File, padding,
				dim.Render(fmt.Sprintf("%d errors", len(r.Errors))))
			continue
		}
		res := r.Result
		score := f.style(bandColor(res.OverallScore)).Render(fmt.Sprintf("%3d", res.OverallScore))
		fmt.Fprintf(f.w, "%s %s%s  %s  %-9s %s\n", f.style("10").Render("✓"), r.File, padding,
			score, res.Band.Name, dim.Render(fmt.Sprintf("%s, weakest %s", res.Segment, res.WeakestDimension)))
	}
}

func (f *ConsoleFormatter) printFailure(file string, errs []cue.ValidationError) {
	fmt.Fprintf(f.w, "%s %s\n", f.style("9").Render("✗"), file)
	for _, e := range errs {
		f.printValidationError(e)
	}
}

// printValidationError prints a validation error with appropriate styling
func (f *ConsoleFormatter) printValidationError(err cue.ValidationError) {
	prefix := "    ✘ "
	style := f.style("9")
	if err.Severity == "warning" {
		prefix = "    ⚠ "
		style = f.style("3")
	}

	location := err.File
	if err.Path != "" {
		location += " " + err.Path
	}
	if err.Line > 0 {
		fmt.Fprintf(f.w, "%s%s:%d: %s\n", prefix, style.Render(location), err.Line, err.Message)
	} else {
		fmt.Fprintf(f.w, "%s%s: %s\n", prefix, style.Render(location), err.Message)
	}
}

// printReport prints the full report for one submission
func (f *ConsoleFormatter) printReport(r cli.ScoreResult, benchmark int) {
	res := r.Result
	bold := lipgloss.NewStyle()
	if f.colorize {
		bold = bold.Bold(true)
	}
	dim := f.style("8")

	fmt.Fprintln(f.w)
	title := "AI Readiness Scorecard"
	if r.Lead != nil && r.Lead.CompanyName != "" {
		title += " · " + r.Lead.CompanyName
	}
	fmt.Fprintln(f.w, bold.Render(title))
	if r.File != "" {
		fmt.Fprintln(f.w, dim.Render(r.File))
	}
	fmt.Fprintln(f.w)

	scoreStyle := f.style(bandColor(res.OverallScore))
	if f.colorize {
		scoreStyle = scoreStyle.Bold(true)
	}
	fmt.Fprintf(f.w, "Overall  %s  %s  %s\n",
		scoreStyle.Render(fmt.Sprintf("%d/100", res.OverallScore)),
		scoreStyle.Render(res.Band.Name),
		dim.Render(fmt.Sprintf("benchmark %d", benchmark)))
	fmt.Fprintf(f.w, "Segment  %s\n", res.Segment)
	if res.Band.Description != "" {
		fmt.Fprintf(f.w, "\n%s\n", res.Band.Description)
	}
	if res.Band.Action != "" {
		fmt.Fprintf(f.w, "%s %s\n", bold.Render("Next step:"), res.Band.Action)
	}

	fmt.Fprintln(f.w)
	width := 0
	for _, d := range res.Breakdown {
		width = max(width, len(d.Dimension))
	}
	for _, d := range res.Breakdown {
		marker := "  "
		switch d.Dimension {
		case res.StrongestDimension:
			marker = f.style("10").Render("▲ ")
		case res.WeakestDimension:
			marker = f.style("9").Render("▼ ")
		}
		padding := strings.Repeat(" ", width-len(d.Dimension))
		fmt.Fprintf(f.w, "%s%s%s  %s %3d", marker, d.Dimension, padding,
			f.style(bandColor(d.Score)).Render(bar(d.Score)), d.Score)
		if f.verbose {
			fmt.Fprint(f.w, dim.Render(fmt.Sprintf("  (%d/%d, gap %d)", d.Raw, d.Max, res.Gaps[d.Dimension])))
		}
		fmt.Fprintln(f.w)
	}

	if len(res.Priorities) > 0 {
		fmt.Fprintf(f.w, "\n%s\n", bold.Render("Priorities"))
		for i, p := range res.Priorities {
			f.printPriority(i+1, p)
		}
	}
}

func (f *ConsoleFormatter) printPriority(n int, p scoring.Priority) {
	dim := f.style("8")
	title := p.Recommendation.Title
	if title == "" {
		title = string(p.Dimension)
	}
	fmt.Fprintf(f.w, "%d. %s %s\n", n, title,
		dim.Render(fmt.Sprintf("(%s %d, benchmark %d)", p.Dimension, p.Score, p.Benchmark)))
	if f.verbose && p.Recommendation.Text != "" {
		fmt.Fprintf(f.w, "   %s\n", p.Recommendation.Text)
		if p.Recommendation.Question != "" {
			fmt.Fprintf(f.w, "   %s\n", dim.Render("Ask: "+p.Recommendation.Question))
		}
	}
}

// bar renders score as a fixed-width block bar
func bar(score int) string {
	filled := min(max(score*barWidth/100, 0), barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// FormatValidation writes a validation run
func (f *ConsoleFormatter) FormatValidation(summary *cli.ValidationSummary) error {
	if f.quiet {
		return nil
	}

	for _, result := range summary.Results {
		if result.Success && len(result.Errors) == 0 {
			if f.verbose {
				fmt.Fprintf(f.w, "%s %s\n", f.style("10").Render("✓"), result.File)
			}
			continue
		}
		status := f.style("9").Render("✗")
		if result.Success {
			status = f.style("3").Render("⚠")
		}
		fmt.Fprintf(f.w, "%s %s\n", status, result.File)
		for _, e := range result.Errors {
			f.printValidationError(e)
		}
	}

	if summary.FailedFiles == 0 {
		fmt.Fprintln(f.w, f.style("10").Render(fmt.Sprintf("✓ All %d files valid", summary.TotalFiles)))
		return nil
	}
	fmt.Fprintf(f.w, "\n%d/%d valid, %d errors\n", summary.SuccessfulFiles, summary.TotalFiles, summary.TotalErrors)
	return nil
}

// FormatCatalog writes the questions of a catalog grouped by dimension
func (f *ConsoleFormatter) FormatCatalog(catalog *quiz.Catalog) error {
	bold := lipgloss.NewStyle()
	if f.colorize {
		bold = bold.Bold(true)
	}
	dim := f.style("8")
	weights := catalog.Weights()

	for i, d := range catalog.Priority() {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		fmt.Fprintf(f.w, "%s %s\n", bold.Render(string(d)), dim.Render(fmt.Sprintf("weight %.2f", weights[d])))
		for _, q := range catalog.QuestionsFor(d) {
			marker := ""
			if q.Segment {
				marker = dim.Render(" [segment]")
			}
			fmt.Fprintf(f.w, "  %s %s%s\n", dim.Render(q.ID), q.Text, marker)
			for _, opt := range q.Options {
				fmt.Fprintf(f.w, "      %3d  %s\n", opt.Score, opt.Label)
			}
		}
	}
	return nil
}

// FormatBands writes the score bands of a catalog
func (f *ConsoleFormatter) FormatBands(catalog *quiz.Catalog) error {
	for _, b := range catalog.Bands() {
		name := f.style(bandColor(b.Min)).Render(fmt.Sprintf("%-10s", b.Name))
		fmt.Fprintf(f.w, "%s %3d-%-3d  %s\n", name, b.Min, b.Max, b.Description)
		if f.verbose && b.Action != "" {
			fmt.Fprintf(f.w, "%s %s\n", strings.Repeat(" ", 20), f.style("8").Render(b.Action))
		}
	}
	return nil
}
