package cmd

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dotcommander/scorecard/internal/mcptools"
	"github.com/dotcommander/scorecard/internal/output"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing two tools:
list_questions returns the catalog and score_assessment scores a set of answers.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		engine, err := newEngine(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if err := server.ServeStdio(mcptools.NewServer(engine, output.Version)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
