package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize smartcalc configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the service URL and your preferences, then writes them to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
