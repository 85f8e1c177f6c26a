package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voxley/voxley/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize voxley configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure voxley and generates a .voxley.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
