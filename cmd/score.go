package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/scorecard/internal/cli"
	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/discovery"
	"github.com/dotcommander/scorecard/internal/outputters"
	"github.com/dotcommander/scorecard/internal/quiz"
)

// scoreOptions are the flags of the score command
type scoreOptions struct {
	answers        []string
	from           string
	followSymlinks bool
}

var scoreOpts scoreOptions

var scoreCmd = &cobra.Command{
	Use:   "score [files...]",
	Short: "Score answer sheets",
	Long: `Score answer sheets read from YAML or JSON files, directories or doublestar
globs, or given directly with --answer flags.

Answers given with --answer are applied on top of the sheet read with --from,
which makes it easy to try "what if" changes to a submission:

  scorecard score submissions/
  scorecard score 'leads/**/*.yaml' --format markdown -o report.md
  scorecard score --answer q1=20 --answer q2=10
  scorecard score --from ada.yaml --answer q12=20`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}

		summary, err := runScore(cmd.Context(), cfg, logger, cmd.OutOrStdout(), args, scoreOpts)
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
	scoreCmd.Flags().StringArrayVarP(&scoreOpts.answers, "answer", "a", nil, "Answer as <question>=<score> (repeatable)")
	scoreCmd.Flags().StringVar(&scoreOpts.from, "from", "", "Answer sheet that --answer flags are applied to")
	scoreCmd.Flags().BoolVar(&scoreOpts.followSymlinks, "follow-symlinks", false, "Follow symlinks when walking directories")
	rootCmd.AddCommand(scoreCmd)
}

// runScore scores every file matched by args plus the sheet assembled from
// opts, then writes the report for the configured format.
func runScore(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, args []string, opts scoreOptions) (*cli.ScoreSummary, error) {
	if len(args) == 0 && len(opts.answers) == 0 && opts.from == "" {
		return nil, cli.ErrNoInput
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	sc, err := cli.NewScoreContext(engine, cfg.Concurrency, logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var results []cli.ScoreResult

	if len(args) > 0 {
		files, err := discovery.NewFileDiscovery("", opts.followSymlinks).Expand(args)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no answer files matched %v", args)
		}
		logger.Debug("scoring files", "count", len(files), "concurrency", sc.Concurrency)

		batch, err := sc.ScoreFiles(ctx, files)
		if err != nil {
			return nil, err
		}
		results = append(results, batch.Results...)
	}

	if len(opts.answers) > 0 || opts.from != "" {
		sheet, source, err := flagSheet(opts)
		if err != nil {
			return nil, err
		}
		results = append(results, sc.ScoreSheet(source, sheet))
	}

	summary := cli.NewScoreSummary(start, engine.Catalog(), results)

	outputter := outputters.NewOutputter(cfg)
	outputter.SetStdout(out)
	if err := outputter.Format(summary, cfg.Format); err != nil {
		return nil, fmt.Errorf("error formatting output: %w", err)
	}
	return summary, nil
}

// flagSheet reads the --from sheet, if any, and overlays the --answer flags.
func flagSheet(opts scoreOptions) (quiz.AnswerSheet, string, error) {
	source := "flags"
	var sheet quiz.AnswerSheet
	if opts.from != "" {
		var err error
		sheet, err = quiz.ReadAnswerSheet(opts.from)
		if err != nil {
			return quiz.AnswerSheet{}, "", err
		}
		source = opts.from
	}

	overrides, err := quiz.ParseAnswerFlags(opts.answers)
	if err != nil {
		return quiz.AnswerSheet{}, "", err
	}
	sheet.Answers = sheet.Answers.Merge(overrides)
	return sheet, source, nil
}
