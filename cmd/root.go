package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "voxley",
	Short: "Voice-driven business strategy interview engine",
	Long: `Voxley conducts a structured business strategy interview covering
23 discovery topics across 9 steps, tracking completion as it goes.
It analyzes pre-interview company research for gaps, adapts its
questions to your answers, and produces an assessment report with a
confidence score per topic.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".voxley.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
