package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/citeworks/citeforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage citeforge configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}
		if err := config.GenerateSample(path); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}
		fmt.Printf("Wrote sample config to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("output", defaultConfigPath, "path for the generated config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
