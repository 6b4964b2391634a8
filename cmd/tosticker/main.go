package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tosticker",
	Short: "Tosticker - todos, reminders and inspirations",
	Long:  `Tosticker keeps prioritized todos with due dates and reminders, plus a searchable collection of tagged inspiration notes.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is the normal case.
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

var (
	apiAddr    string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:7466", "API server address")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.tosticker/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(inspirationCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dbPathCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
