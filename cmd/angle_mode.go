package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var angleModeCmd = &cobra.Command{
	Use:   "angle-mode [DEG|RAD|GRAD]",
	Short: "Show or change the scientific angle mode",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			fmt.Println(a.Scientific.AngleMode())
			return nil
		}
		return a.Scientific.SetAngleMode(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(angleModeCmd)
}
