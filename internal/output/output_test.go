package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
	"gopkg.in/yaml.v3"
)

func workedResult(t *testing.T) *scoring.ScoreResult {
	t.Helper()
	answers := quiz.Answers{
		"q1": 20, "q2": 10, "q3": 5, "q4": 15, "q5": 5,
		"q6": 10, "q7": 10, "q8": 10, "q9": 20, "q10": 5,
		"q11": 5, "q12": 0, "q13": 5, "q14": 10, "q15": 5,
	}
	result, err := scoring.NewEngine(nil).Calculate(answers)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	return &result
}

func testSummary(t *testing.T, withFailure bool) *cli.ScoreSummary {
	t.Helper()
	results := []cli.ScoreResult{
		{
			File:    "acme.yaml",
			Lead:    &lead.Lead{FirstName: "Ada", CompanyName: "Acme", Email: "ada@acme.io", GDPRConsent: true},
			Result:  workedResult(t),
			Success: true,
		},
	}
	if withFailure {
		results = append(results, cli.ScoreResult{
			File:   "broken.yaml",
			Errors: []cue.ValidationError{{File: "broken.yaml", Path: "answers.q1", Message: "conflicting values", Severity: "error", Line: 3}},
		})
	}
	return cli.NewScoreSummary(time.Now(), quiz.Default(), results)
}

func testValidationSummary() *cli.ValidationSummary {
	return cli.NewValidationSummary(time.Now(), []cli.ValidationResult{
		{File: "catalog.yaml", Type: "catalog", Success: true},
		{File: "bad.yaml", Type: "answers", Errors: []cue.ValidationError{{File: "bad.yaml", Message: `unknown question "q42"`, Severity: "error"}}},
	})
}

func TestConsoleFormatter_Format(t *testing.T) {
	tests := []struct {
		name        string
		summary     func(t *testing.T) *cli.ScoreSummary
		quiet       bool
		verbose     bool
		contains    []string
		notContains []string
	}{
		{
			name:    "single report",
			summary: func(t *testing.T) *cli.ScoreSummary { return testSummary(t, false) },
			contains: []string{
				"AI Readiness Scorecard · Acme",
				"50/100",
				"Building",
				"benchmark 37",
				"Segment  Piloting",
				"▲ Leadership Gravity",
				"▼ Champion Density",
				"Priorities",
			},
			notContains: []string{"scored,"},
		},
		{
			name:     "batch table",
			summary:  func(t *testing.T) *cli.ScoreSummary { return testSummary(t, true) },
			contains: []string{"✓ acme.yaml", "✗ broken.yaml", "1 errors", "conflicting values", "broken.yaml answers.q1:3", "1/2 scored"},
			// reports are only expanded in verbose mode
			notContains: []string{"Priorities"},
		},
		{
			name:     "batch verbose",
			summary:  func(t *testing.T) *cli.ScoreSummary { return testSummary(t, true) },
			verbose:  true,
			contains: []string{"Priorities", "(35/55, gap 16)", "(10/50, gap 60)"},
		},
		{
			name:        "quiet",
			summary:     func(t *testing.T) *cli.ScoreSummary { return testSummary(t, true) },
			quiet:       true,
			notContains: []string{"acme", "broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewConsoleFormatter(&buf, tt.quiet, tt.verbose, false)
			if err := f.Format(tt.summary(t)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(out, unwanted) {
					t.Errorf("output contains %q\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestConsoleFormatter_FormatValidation(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, false, true, false)
	if err := f.FormatValidation(testValidationSummary()); err != nil {
		t.Fatalf("FormatValidation() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"✓ catalog.yaml", "✗ bad.yaml", `unknown question "q42"`, "1/2 valid"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	buf.Reset()
	valid := cli.NewValidationSummary(time.Now(), []cli.ValidationResult{{File: "a.yaml", Success: true}})
	if err := NewConsoleFormatter(&buf, false, false, false).FormatValidation(valid); err != nil {
		t.Fatalf("FormatValidation() error = %v", err)
	}
	if got := buf.String(); got != "✓ All 1 files valid\n" {
		t.Errorf("output = %q", got)
	}
}

func TestConsoleFormatter_Catalog(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(&buf, false, false, false)
	if err := f.FormatCatalog(quiz.Default()); err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Leadership Gravity weight 1.25") {
		t.Errorf("catalog should start with the first priority dimension:\n%s", out)
	}
	if !strings.Contains(out, "[segment]") {
		t.Error("segment question not marked")
	}

	buf.Reset()
	if err := f.FormatBands(quiz.Default()); err != nil {
		t.Fatalf("FormatBands() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("bands lines = %d, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "High Risk") || !strings.Contains(lines[0], "0-34") {
		t.Errorf("first band line = %q", lines[0])
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		score  int
		filled int
	}{
		{0, 0},
		{50, 10},
		{64, 12},
		{100, 20},
		{150, 20},
		{-5, 0},
	}
	for _, tt := range tests {
		got := bar(tt.score)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("bar(%d) filled = %d, want %d", tt.score, n, tt.filled)
		}
		if n := strings.Count(got, "█") + strings.Count(got, "░"); n != barWidth {
			t.Errorf("bar(%d) width = %d, want %d", tt.score, n, barWidth)
		}
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, indent := range []bool{false, true} {
		var buf bytes.Buffer
		if err := NewJSONFormatter(&buf, indent).Format(testSummary(t, true)); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if indent != strings.Contains(buf.String(), "\n  ") {
			t.Errorf("indent = %v but output was %q", indent, buf.String()[:40])
		}

		var report Report
		if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
			t.Fatalf("Failed to parse JSON: %v", err)
		}
		if report.Header.Tool != Tool {
			t.Errorf("Tool = %q, want %q", report.Header.Tool, Tool)
		}
		if report.Summary.TotalFiles != 2 || report.Summary.FailedFiles != 1 {
			t.Errorf("Summary = %+v", report.Summary)
		}
		if report.Summary.OverallBenchmark != 37 {
			t.Errorf("OverallBenchmark = %d, want 37", report.Summary.OverallBenchmark)
		}
		score := report.Results[0].Score
		if score == nil || score.OverallScore != 50 || score.Segment != quiz.SegmentPiloting {
			t.Errorf("Results[0].Score = %+v", score)
		}
		if got := score.DimensionScores[quiz.ChampionDensity]; got != 20 {
			t.Errorf("Champion Density = %d, want 20", got)
		}
		if report.Results[1].Score != nil || len(report.Results[1].Errors) != 1 {
			t.Errorf("Results[1] = %+v", report.Results[1])
		}
	}
}

func TestJSONFormatter_Catalog(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf, true).FormatCatalog(quiz.Default()); err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}
	var def quiz.Definition
	if err := json.Unmarshal(buf.Bytes(), &def); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if _, err := quiz.New(def); err != nil {
		t.Errorf("printed catalog does not load back: %v", err)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter(&buf)
	if err := f.Format(testSummary(t, false)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	var report Report
	if err := yaml.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if report.Results[0].Score.Band.Name != "Building" {
		t.Errorf("Band = %q, want Building", report.Results[0].Score.Band.Name)
	}
	if !strings.Contains(buf.String(), "overallScore: 50") {
		t.Errorf("missing overallScore:\n%s", buf.String())
	}

	buf.Reset()
	if err := f.FormatValidation(testValidationSummary()); err != nil {
		t.Fatalf("FormatValidation() error = %v", err)
	}
	var vreport ValidationReport
	if err := yaml.Unmarshal(buf.Bytes(), &vreport); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if vreport.Summary.FailedFiles != 1 || vreport.Results[1].Errors[0].Message != `unknown question "q42"` {
		t.Errorf("ValidationReport = %+v", vreport)
	}

	buf.Reset()
	if err := f.FormatCatalog(quiz.Default()); err != nil {
		t.Fatalf("FormatCatalog() error = %v", err)
	}
	if _, err := quiz.ParseCatalog(buf.Bytes()); err != nil {
		t.Errorf("printed catalog does not load back: %v", err)
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, true).Format(testSummary(t, true)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# AI Readiness Scorecard",
		"| [acme.yaml](#acmeyaml) | 50 | Building | Piloting | Champion Density |",
		"| broken.yaml | ❌ | | | |",
		"**Overall:** 50/100 (Building, benchmark 37)",
		"| Champion Density ▼ | 20 | 10/50 | 60 |",
		"### Priorities",
		"- conflicting values `answers.q1` (line 3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestMarkdownFormatter_FormatValidation(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    []string
		absent  []string
	}{
		{
			name:   "failures only",
			want:   []string{"| Invalid | 1 |", "## bad.yaml", "Status: ❌", "✗ 1 files failed validation"},
			absent: []string{"## catalog.yaml"},
		},
		{
			name:    "verbose",
			verbose: true,
			want:    []string{"## catalog.yaml", "Type: `catalog`"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewMarkdownFormatter(&buf, tt.verbose).FormatValidation(testValidationSummary()); err != nil {
				t.Fatalf("FormatValidation() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
			for _, absent := range tt.absent {
				if strings.Contains(out, absent) {
					t.Errorf("output contains %q", absent)
				}
			}
		})
	}
}

func TestMarkdownFormatter_Bands(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf, false).FormatBands(quiz.Default()); err != nil {
		t.Fatalf("FormatBands() error = %v", err)
	}
	if !strings.Contains(buf.String(), "| Ready | 80-100 |") {
		t.Errorf("bands table:\n%s", buf.String())
	}
}

func TestCreateAnchor(t *testing.T) {
	tests := map[string]string{
		"acme.yaml":         "acmeyaml",
		"leads/Big Co.yaml": "leads-big-coyaml",
		"simple":            "simple",
	}
	for in, want := range tests {
		if got := createAnchor(in); got != want {
			t.Errorf("createAnchor(%q) = %q, want %q", in, got, want)
		}
	}
}
