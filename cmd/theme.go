package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the colour theme",
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current theme",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Println(a.Theme.Current())
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between dark and light",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Println(a.Theme.Toggle())
		return nil
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set <dark|light>",
	Short: "Choose a theme",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Theme.Set(args[0])
	},
}

func init() {
	themeCmd.AddCommand(themeShowCmd, themeToggleCmd, themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}
