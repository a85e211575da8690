package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/converter"
	"github.com/ziadkadry99/smartcalc/internal/progress"
)

var (
	convertCategory string
	convertTable    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [value] <from> <to>",
	Short: "Convert a value between two units",
	Long: `Converts a value between two units of one category and records it in the
conversion history. With --table the value may be omitted and the sample
values 1, 5, 10, 25, 50 and 100 are converted instead.

  smartcalc convert 100 m km
  smartcalc convert --category Masse --table kg lb`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 2 && !convertTable {
			return fmt.Errorf("a value is required unless --table is set")
		}
		if !converter.KnownCategory(convertCategory) {
			return fmt.Errorf("unknown category %q (run `smartcalc units` for the list)", convertCategory)
		}
		from, to := args[len(args)-2], args[len(args)-1]

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		conv := a.Converter
		if err := conv.LoadUnits(ctx, convertCategory); err != nil {
			return err
		}
		if err := conv.SetUnits(ctx, from, to); err != nil {
			return err
		}

		if len(args) == 3 {
			conv.SetInput(ctx, args[0])
			if err := conv.Submit(ctx); err != nil {
				return err
			}
			if info := conv.State().Info; info != "" {
				fmt.Println(info)
			}
		}

		if convertTable {
			return printQuickTable(cmd, conv, from, to)
		}
		return nil
	},
}

func printQuickTable(cmd *cobra.Command, conv *converter.Converter, from, to string) error {
	reporter := progress.NewReporter(os.Stderr, "Quick table")
	reporter.Start(len(converter.SampleValues))

	var mu sync.Mutex
	done := 0
	rows, err := conv.QuickTable(cmd.Context(), func(row converter.QuickRow) {
		mu.Lock()
		defer mu.Unlock()
		done++
		reporter.Update(done, fmt.Sprintf("%g %s", row.Value, from))
	})
	reporter.Finish()
	if err != nil {
		return err
	}

	for _, row := range rows {
		fmt.Printf("%8g %-6s = %s %s\n", row.Value, from, row.Result, to)
	}
	return nil
}

func init() {
	convertCmd.Flags().StringVarP(&convertCategory, "category", "c", "Longueur", "conversion category")
	convertCmd.Flags().BoolVar(&convertTable, "table", false, "also print the quick conversion table")
	rootCmd.AddCommand(convertCmd)
}
