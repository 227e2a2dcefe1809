package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/quiz"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w      io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{w: w, indent: indent}
}

// Format writes the scoring summary as JSON
func (f *JSONFormatter) Format(summary *cli.ScoreSummary) error {
	return f.write(NewReport(summary))
}

// FormatValidation writes the validation summary as JSON
func (f *JSONFormatter) FormatValidation(summary *cli.ValidationSummary) error {
	return f.write(NewValidationReport(summary))
}

// FormatCatalog writes the catalog definition as JSON
func (f *JSONFormatter) FormatCatalog(catalog *quiz.Catalog) error {
	return f.write(catalog.Definition())
}

// FormatBands writes the catalog's bands as JSON
func (f *JSONFormatter) FormatBands(catalog *quiz.Catalog) error {
	return f.write(catalog.Bands())
}

func (f *JSONFormatter) write(v any) error {
	enc := json.NewEncoder(f.w)
	if f.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return nil
}
