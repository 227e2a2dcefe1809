package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/cue"
	"github.com/dotcommander/scorecard/internal/logging"
	"github.com/dotcommander/scorecard/internal/output"
	"github.com/dotcommander/scorecard/internal/quiz"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// exitFunc is swapped out by tests
var exitFunc = os.Exit

var (
	configDir    string
	quiet        bool
	verbose      bool
	strict       bool
	outputFormat string
	outputFile   string
	catalogFile  string
	concurrency  int
)

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "AI Readiness Scorecard - score quiz answers and serve the assessment",
	Long: `Scorecard computes the AI Readiness Scorecard: per-dimension scores, a weighted
overall score, a risk band, a segment and prioritized recommendations.

Score answer files from the command line, validate catalogs and answer sheets,
or run the HTTP API and MCP server used by the quiz front end.`,
	Version:       output.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "C", "", "Directory holding .scorecardrc (default: working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Reject unknown questions and off-catalog option scores")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format (console|json|markdown|yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "Question catalog YAML/JSON (default: built-in catalog)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 10, "Files scored in parallel")

	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("catalog", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
}

// loadConfig reads configuration and builds the logger every command shares.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, logger, nil
}

// newEngine builds the scoring engine for cfg. A configured catalog file is
// checked against the catalog schema before it is parsed.
func newEngine(cfg *config.Config) (*scoring.Engine, error) {
	catalog := quiz.Default()
	if cfg.Catalog != "" {
		data, err := os.ReadFile(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("error reading catalog: %w", err)
		}

		validator := cue.NewValidator()
		if err := validator.LoadSchemas(); err != nil {
			return nil, fmt.Errorf("loading schemas: %w", err)
		}
		schemaErrs, err := validator.ValidateFile(cfg.Catalog, data, cue.KindCatalog)
		if err != nil {
			return nil, err
		}
		for _, e := range schemaErrs {
			if e.Severity != "warning" {
				return nil, fmt.Errorf("catalog %s: %s", cfg.Catalog, e.Message)
			}
		}

		catalog, err = quiz.ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog, err)
		}
	}
	return scoring.NewEngine(catalog, scoring.WithStrict(cfg.Strict)), nil
}
