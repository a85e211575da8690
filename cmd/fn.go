package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/format"
)

var fnCmd = &cobra.Command{
	Use:   "fn <name> <value>",
	Short: "Apply a single scientific function to a number",
	Long:  `Calls one of the service's special functions, for example "smartcalc fn factorial 5".`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, ok := format.ParseNumber(args[1])
		if !ok {
			return fmt.Errorf("invalid number %q", args[1])
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.Scientific.Function(cmd.Context(), args[0], value)
		if err != nil {
			return err
		}
		fmt.Printf("%s(%s) = %s\n", args[0], args[1], out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fnCmd)
}
