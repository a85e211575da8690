package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "smartcalc",
	Short: "Terminal client for the SmartCalc calculation service",
	Long: `SmartCalc drives a remote calculation service from the terminal: a
standard calculator, a unit converter and a scientific calculator, each
with a persisted history. It can also serve a local bridge so a browser
page can share the same session.`,
	SilenceUsage: true,
}

// Execute runs the root command. Cobra prints the error; main sets the
// exit status.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
