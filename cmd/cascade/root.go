package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxygn-cloud-ai/cascade/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Cascade runs a generation call per node of a prompt tree, level by level",
	Long: `Cascade walks a prompt tree breadth-first and drives one generation call
per node, with pause, resume and cancel controls between nodes.

Trees are plain YAML files; see the run command for the demo generator.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("tree", "tree.yaml", "Path to the YAML prompt tree")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(levelName))
}
