// Package outputters picks a report formatter for the configured format and
// routes its output to stdout or the configured file.
package outputters

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/output"
	"github.com/dotcommander/scorecard/internal/quiz"
)

// Formatter renders every report the commands produce
type Formatter interface {
	Format(summary *cli.ScoreSummary) error
	FormatValidation(summary *cli.ValidationSummary) error
	FormatCatalog(catalog *quiz.Catalog) error
	FormatBands(catalog *quiz.Catalog) error
}

// FormatterFactory creates a Formatter writing to w
type FormatterFactory interface {
	CreateFormatter(format string, w io.Writer) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters of the output package
type DefaultFormatterFactory struct {
	cfg *config.Config
}

// NewDefaultFormatterFactory creates a DefaultFormatterFactory
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg}
}

// CreateFormatter returns the formatter for format
func (f *DefaultFormatterFactory) CreateFormatter(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "console":
		colorize := f.cfg.Output == "" && os.Getenv("NO_COLOR") == ""
		return output.NewConsoleFormatter(w, f.cfg.Quiet, f.cfg.Verbose, colorize), nil
	case "json":
		return output.NewJSONFormatter(w, true), nil
	case "markdown":
		return output.NewMarkdownFormatter(w, f.cfg.Verbose), nil
	case "yaml":
		return output.NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
	stdout  io.Writer
}

// NewOutputter creates a new Outputter writing to stdout
func NewOutputter(config *config.Config) *Outputter {
	return NewOutputterWithFactory(config, NewDefaultFormatterFactory(config))
}

// NewOutputterWithFactory creates an Outputter with a custom factory
func NewOutputterWithFactory(config *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  config,
		factory: factory,
		stdout:  os.Stdout,
	}
}

// SetStdout redirects output that is not sent to a file
func (o *Outputter) SetStdout(w io.Writer) {
	o.stdout = w
}

// Format writes a scoring summary
func (o *Outputter) Format(summary *cli.ScoreSummary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}
	return o.with(format, func(f Formatter) error { return f.Format(summary) })
}

// FormatValidation writes a validation summary
func (o *Outputter) FormatValidation(summary *cli.ValidationSummary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}
	return o.with(format, func(f Formatter) error { return f.FormatValidation(summary) })
}

// FormatCatalog writes the questions of catalog
func (o *Outputter) FormatCatalog(catalog *quiz.Catalog, format string) error {
	return o.with(format, func(f Formatter) error { return f.FormatCatalog(catalog) })
}

// FormatBands writes the bands of catalog
func (o *Outputter) FormatBands(catalog *quiz.Catalog, format string) error {
	return o.with(format, func(f Formatter) error { return f.FormatBands(catalog) })
}

// with opens the destination, builds the formatter and runs fn against it.
func (o *Outputter) with(format string, fn func(Formatter) error) (err error) {
	w := o.stdout
	if o.config.Output != "" {
		file, ferr := os.Create(o.config.Output)
		if ferr != nil {
			return fmt.Errorf("error writing to file %s: %w", o.config.Output, ferr)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("error writing to file %s: %w", o.config.Output, cerr)
			}
		}()
		w = file
	}

	formatter, err := o.factory.CreateFormatter(format, w)
	if err != nil {
		return err
	}
	return fn(formatter)
}
