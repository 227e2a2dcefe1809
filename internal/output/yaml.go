package output

import (
	"fmt"
	"io"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/quiz"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	w io.Writer
}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{w: w}
}

// Format writes the scoring summary as YAML
func (f *YAMLFormatter) Format(summary *cli.ScoreSummary) error {
	return f.write(NewReport(summary))
}

// FormatValidation writes the validation summary as YAML
func (f *YAMLFormatter) FormatValidation(summary *cli.ValidationSummary) error {
	return f.write(NewValidationReport(summary))
}

// FormatCatalog writes the catalog definition as YAML. The output can be
// edited and loaded back with --catalog.
func (f *YAMLFormatter) FormatCatalog(catalog *quiz.Catalog) error {
	return f.write(catalog.Definition())
}

// FormatBands writes the catalog's bands as YAML
func (f *YAMLFormatter) FormatBands(catalog *quiz.Catalog) error {
	return f.write(catalog.Bands())
}

func (f *YAMLFormatter) write(v any) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	return enc.Close()
}
