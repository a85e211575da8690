package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/scientific"
)

var (
	sciMode     string
	sciExamples bool
)

var sciCmd = &cobra.Command{
	Use:   "sci [expression]",
	Short: "Evaluate an expression on the scientific calculator",
	Long: `Evaluates an expression such as "sin(30) + sqrt(16)" with the persisted angle
mode (or --mode) and records it in the scientific history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if sciExamples || len(args) == 0 {
			fmt.Println(scientific.Help())
			return nil
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if sciMode != "" {
			if err := a.Scientific.SetAngleMode(ctx, sciMode); err != nil {
				return err
			}
		} else if err := a.Scientific.SyncAngleMode(ctx); err != nil {
			return err
		}

		a.Scientific.SetInput(args[0])
		if err := a.Scientific.Calculate(ctx); err != nil {
			return err
		}

		st := a.Scientific.State()
		fmt.Printf("%s %s   [%s]\n", st.Input, st.Result, st.AngleMode)
		return nil
	},
}

func init() {
	sciCmd.Flags().StringVar(&sciMode, "mode", "", "angle mode for this and later evaluations (DEG, RAD, GRAD)")
	sciCmd.Flags().BoolVar(&sciExamples, "examples", false, "print example expressions and exit")
	rootCmd.AddCommand(sciCmd)
}
