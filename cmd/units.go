package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/converter"
)

var unitsCmd = &cobra.Command{
	Use:   "units [category]",
	Short: "List conversion categories or the units of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, c := range converter.Categories() {
				fmt.Println(c)
			}
			return nil
		}

		category := args[0]
		if !converter.KnownCategory(category) {
			return fmt.Errorf("unknown category %q (run `smartcalc units` for the list)", category)
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Converter.LoadUnits(cmd.Context(), category); err != nil {
			return err
		}
		converter.RenderGuide(os.Stdout, category, a.Converter.State().Units)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unitsCmd)
}
