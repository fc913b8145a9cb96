package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/rental-pipeline/internal/cleaning"
	"github.com/jonathan/rental-pipeline/internal/config"
	"github.com/jonathan/rental-pipeline/internal/dataset"
	"github.com/jonathan/rental-pipeline/internal/history"
	"github.com/jonathan/rental-pipeline/internal/observability"
	"github.com/jonathan/rental-pipeline/internal/pathutil"
	"github.com/jonathan/rental-pipeline/internal/tracking"
)

// outputFileName is the fixed local staging file for the cleaned dataset.
const outputFileName = "clean_sample.csv"

// jobType identifies this step in the tracking service's run records.
const jobType = "basic_cleaning"

var cleanCommand = &cobra.Command{
	Use:   "clean",
	Short: "Run the basic cleaning step end-to-end",
	Long: `Downloads the input artifact, keeps rows priced within [min_price, max_price],
normalizes the last_review column to canonical dates, and publishes the
result as a new artifact.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runCleanCmd,
}

var (
	cleanConfigPath  string
	cleanInput       string
	cleanOutput      string
	cleanOutputType  string
	cleanOutputDesc  string
	cleanMinPrice    float64
	cleanMaxPrice    float64
	cleanTrackingURL string
	cleanAPIKey      string
	cleanDatabaseURL string
	cleanVerbose     bool
)

func init() {
	// Config file flag (processed first)
	cleanCommand.Flags().StringVar(&cleanConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	cleanCommand.Flags().StringVar(&cleanInput, "input_artifact", "", "Fully-qualified name for the input artifact")
	cleanCommand.Flags().StringVar(&cleanOutput, "output_artifact", "", "Name of the output artifact")
	cleanCommand.Flags().StringVar(&cleanOutputType, "output_type", "", "Type of the output artifact")
	cleanCommand.Flags().StringVar(&cleanOutputDesc, "output_description", "", "Description for the output artifact")
	cleanCommand.Flags().Float64Var(&cleanMinPrice, "min_price", 0, "Minimum price for cleaning outliers")
	cleanCommand.Flags().Float64Var(&cleanMaxPrice, "max_price", 0, "Maximum price for cleaning outliers")
	cleanCommand.Flags().BoolVarP(&cleanVerbose, "verbose", "v", false, "Print detailed debug information")

	cleanCommand.Flags().StringVar(&cleanTrackingURL, "tracking-url", "", "Tracking service base URL (optional, defaults to TRACKING_URL env var)")

	// API key can be passed as a flag, or read from env var TRACKING_API_KEY
	cleanCommand.Flags().StringVar(&cleanAPIKey, "api-key", "", "Tracking service API key (optional, defaults to TRACKING_API_KEY env var)")

	// Database URL for run-history persistence
	cleanCommand.Flags().StringVar(&cleanDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(cleanCommand)
}

func runCleanCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided. The path may contain env vars
	// or a leading ~.
	var cfg config.Config
	if cleanConfigPath != "" {
		configPath := pathutil.Sanitize(cleanConfigPath)
		loadedCfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if cleanVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("input_artifact") {
		cfg.InputArtifact = cleanInput
	}
	if cmd.Flags().Changed("output_artifact") {
		cfg.OutputArtifact = cleanOutput
	}
	if cmd.Flags().Changed("output_type") {
		cfg.OutputType = cleanOutputType
	}
	if cmd.Flags().Changed("output_description") {
		cfg.OutputDescription = cleanOutputDesc
	}
	if cmd.Flags().Changed("min_price") {
		cfg.MinPrice = &cleanMinPrice
	}
	if cmd.Flags().Changed("max_price") {
		cfg.MaxPrice = &cleanMaxPrice
	}
	if cmd.Flags().Changed("tracking-url") {
		cfg.TrackingURL = cleanTrackingURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = cleanAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = cleanDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = cleanVerbose
	}

	// Step 3: Apply environment defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		TrackingURL: os.Getenv("TRACKING_URL"),
		APIKey:      os.Getenv("TRACKING_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	// Step 4: Validate the merged configuration
	if cfg.TrackingURL == "" {
		return fmt.Errorf("TRACKING_URL environment variable or --tracking-url flag is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("TRACKING_API_KEY environment variable or --api-key flag is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	return runCleaningPipeline(ctx, cfg)
}

// runCleaningPipeline executes the step: fetch, clean, write, publish,
// remove the staging file. Any failure aborts the run; the tracking run is
// finished on every exit path. cfg has passed Validate, so both price
// bounds are set.
func runCleaningPipeline(ctx context.Context, cfg config.Config) (err error) {
	printer := observability.NewPrinter(os.Stdout)
	minPrice, maxPrice := *cfg.MinPrice, *cfg.MaxPrice

	// Connect run-history store if configured; unavailable history is a
	// warning, never fatal.
	var store *history.Store
	if cfg.DatabaseURL != "" {
		var dbErr error
		store, dbErr = history.Connect(ctx, cfg.DatabaseURL)
		if dbErr != nil {
			fmt.Printf("Warning: failed to connect to history database: %v\n", dbErr)
			fmt.Printf("Continuing without run-history persistence...\n")
			store = nil
		} else {
			defer store.Close()
		}
	}

	client := tracking.NewClient(cfg.TrackingURL, cfg.APIKey)

	run, err := client.Init(ctx, jobType, map[string]any{
		"input_artifact":     cfg.InputArtifact,
		"output_artifact":    cfg.OutputArtifact,
		"output_type":        cfg.OutputType,
		"output_description": cfg.OutputDescription,
		"min_price":          minPrice,
		"max_price":          maxPrice,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracking run: %w", err)
	}
	defer func() {
		status := "completed"
		if err != nil {
			status = "failed"
		}
		if finishErr := run.Finish(context.WithoutCancel(ctx), status); finishErr != nil {
			fmt.Printf("Warning: failed to finish tracking run: %v\n", finishErr)
		}
	}()

	historyRunID := recordRunStart(ctx, store, run, cfg)
	defer func() {
		recordRunEnd(ctx, store, historyRunID, err)
	}()

	fmt.Printf("Step 1/5: Downloading artifact: %s...\n", cfg.InputArtifact)
	inputPath, err := run.UseArtifact(ctx, cfg.InputArtifact)
	if err != nil {
		return fmt.Errorf("fetching input artifact failed: %w", err)
	}

	frame, err := dataset.LoadCSV(inputPath)
	if err != nil {
		return fmt.Errorf("loading input dataset failed: %w", err)
	}
	if cfg.Verbose {
		printer.PrintFrame("Raw Dataset", frame)
	}
	recordArtifact(ctx, store, historyRunID, cfg.InputArtifact, "raw_data", history.DirectionInput, frame.Len())

	fmt.Printf("Step 2/5: Cleaning dataset (price range [%.2f, %.2f])...\n", minPrice, maxPrice)
	cleaned, err := cleaning.Clean(ctx, frame, minPrice, maxPrice)
	if err != nil {
		return fmt.Errorf("cleaning dataset failed: %w", err)
	}
	if cfg.Verbose {
		printer.PrintFrame("Cleaned Dataset", cleaned)
	}
	fmt.Printf("Kept %d of %d rows\n", cleaned.Len(), frame.Len())

	fmt.Printf("Step 3/5: Saving cleaned dataset to %s...\n", outputFileName)
	if err = cleaned.SaveCSV(outputFileName); err != nil {
		return fmt.Errorf("writing cleaned dataset failed: %w", err)
	}
	// Best-effort cleanup of the staging file on every exit path past this
	// point, including a failed publish.
	defer func() {
		if removeErr := os.Remove(outputFileName); removeErr != nil {
			fmt.Printf("Warning: failed to remove %s: %v\n", outputFileName, removeErr)
		}
	}()

	fmt.Printf("Step 4/5: Publishing output artifact: %s...\n", cfg.OutputArtifact)
	err = run.LogArtifact(ctx, tracking.Artifact{
		Name:        cfg.OutputArtifact,
		Type:        cfg.OutputType,
		Description: cfg.OutputDescription,
	}, outputFileName)
	if err != nil {
		return fmt.Errorf("publishing output artifact failed: %w", err)
	}
	recordArtifact(ctx, store, historyRunID, cfg.OutputArtifact, cfg.OutputType, history.DirectionOutput, cleaned.Len())

	fmt.Printf("Step 5/5: Done. Run %s published %s\n", run.ID, cfg.OutputArtifact)
	return nil
}
