package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathdrill",
	Short: "Adaptive math practice server",
	Long:  "Mathdrill — an adaptive math practice engine that serves ten-question sessions over HTTP, adjusting difficulty to the learner's estimated mastery.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "Listen address (overrides MATHDRILL_ADDR)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides MATHDRILL_DB; empty string disables logging)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
