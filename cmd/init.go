package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/scorecard/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a .scorecardrc.json with the effective settings",
	Long: `Write the effective configuration to .scorecardrc.json in the config directory.
Secrets such as the Notion token and the PostHog key are never written; set them
with SCORECARD_NOTION_TOKEN and SCORECARD_ANALYTICS_POSTHOGKEY instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if err := runInit(cfg, configDir, initForce, cmd.OutOrStdout()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .scorecardrc.json")
	rootCmd.AddCommand(initCmd)
}

func runInit(cfg *config.Config, dir string, force bool, out io.Writer) error {
	path := filepath.Join(dir, ".scorecardrc.json")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
