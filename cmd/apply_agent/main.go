// Package main provides the entry point for the job application agent CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apply_agent",
	Short: "Job application form detection and autofill",
	Long: "apply_agent detects which applicant tracking system hosts a job application form, " +
		"fills it from a candidate profile, uploads a résumé and submits it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	verbose    bool
	jsonLogs   bool
	headless   bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit structured JSON logs")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "Run Chrome without a window")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Ctrl-C cancels pacing and browser work in flight
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
