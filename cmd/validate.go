package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/discovery"
	"github.com/dotcommander/scorecard/internal/outputters"
	"github.com/dotcommander/scorecard/internal/quiz"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate catalogs and answer sheets",
	Long: `Validate catalogs and answer sheets against their CUE schemas and the rules the
scoring engine relies on: bands that cover 0-100 exactly once, a single segment
question, known question ids and scores that match an option.

Files named *.catalog.yaml (or catalog.yaml) are checked as catalogs, everything
else as answer sheets. Answer sheets are checked against the configured catalog.
Without arguments the configured --catalog is validated.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}

		summary, err := runValidate(cfg, cmd.OutOrStdout(), args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if summary.FailedFiles > 0 {
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

var errNothingToValidate = errors.New("nothing to validate: pass files or set --catalog")

func runValidate(cfg *config.Config, out io.Writer, args []string) (*cli.ValidationSummary, error) {
	configured := len(args) == 0
	if configured {
		if cfg.Catalog == "" {
			return nil, errNothingToValidate
		}
		args = []string{cfg.Catalog}
	}

	files, err := discovery.NewFileDiscovery("", false).Expand(args)
	if err != nil {
		return nil, err
	}

	catalog := quiz.Default()
	if configured {
		for i := range files {
			files[i].Type = discovery.FileTypeCatalog
		}
	} else if cfg.Catalog != "" && slices.ContainsFunc(files, isAnswers) {
		engine, err := newEngine(cfg)
		if err != nil {
			return nil, err
		}
		catalog = engine.Catalog()
	}

	validator := cue.NewValidator()
	if err := validator.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	summary := cli.ValidateFiles(validator, catalog, files)

	outputter := outputters.NewOutputter(cfg)
	outputter.SetStdout(out)
	if err := outputter.FormatValidation(summary, cfg.Format); err != nil {
		return nil, fmt.Errorf("error formatting output: %w", err)
	}
	return summary, nil
}

func isAnswers(f discovery.File) bool {
	return f.Type == discovery.FileTypeAnswers
}
