// Package main is the entry point for the citeforge CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultConfigPath is where serve looks when --config is not given.
const defaultConfigPath = "citeforge.yaml"

// rootCmd is the base command for the citeforge CLI.
var rootCmd = &cobra.Command{
	Use:   "citeforge",
	Short: "Citation catalog and bibliography formatting service",
	Long: `citeforge manages bibliographic references grouped into projects and
renders them as APA or MLA citations.

The serve command runs the HTTP API. Use config init to write a starter
configuration file and version to print the build version.`,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citeforge.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
