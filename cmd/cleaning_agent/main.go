// Package main provides the entry point for the rental-pipeline cleaning
// step CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cleaning_agent",
	Short: "Rental pipeline basic-cleaning step",
	Long:  "Fetches a raw listings dataset from the tracking service, drops price outliers, normalizes review dates, and publishes the cleaned dataset as a new artifact.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
