package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "krishi-mitr",
		Short:        "Krishi Mitr marketplace API",
		Long:         "Krishi Mitr serves user accounts, crop barter/resale listings and reference crop prices from a single JSON document.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newPricesCommand())
	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
