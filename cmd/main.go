package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hacc",
		Short: "Double-entry household accounting service",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newSeedCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
