package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/rental-pipeline/internal/history"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List recorded pipeline runs",
	Long:  "Lists recent pipeline runs from the local run-history database, newest first.",
	RunE:  runListRuns,
}

var (
	runsLimit int
	runsDBURL string
)

func init() {
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	runsCommand.Flags().StringVar(&runsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runsCommand)
}

func runListRuns(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	dbURL := runsDBURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	store, err := history.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to history database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		completed := "-"
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s  %-16s  %-10s  started %s  finished %s  input %s\n",
			run.ID, run.JobType, run.Status,
			run.CreatedAt.Format("2006-01-02 15:04:05"), completed, run.InputArtifact)
	}
	return nil
}
