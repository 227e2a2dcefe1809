package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/outputters"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question catalog",
	Long: `Print every question grouped by dimension, with the score of each option and
the dimension weights. Use --catalog to print a custom catalog.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCatalog(cmd.OutOrStdout(), false); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print the score bands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCatalog(cmd.OutOrStdout(), true); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(bandsCmd)
}

func runCatalog(out io.Writer, bands bool) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	return writeCatalog(cfg, out, bands)
}

// writeCatalog prints the questions, or the bands, of the configured catalog.
func writeCatalog(cfg *config.Config, out io.Writer, bands bool) error {
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	outputter := outputters.NewOutputter(cfg)
	outputter.SetStdout(out)
	if bands {
		err = outputter.FormatBands(engine.Catalog(), cfg.Format)
	} else {
		err = outputter.FormatCatalog(engine.Catalog(), cfg.Format)
	}
	if err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}
