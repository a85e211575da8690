package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/calculator"
)

var calcFresh bool

var calcCmd = &cobra.Command{
	Use:   "calc <keys>...",
	Short: "Press a sequence of keys on the standard calculator",
	Long: `Presses each key in turn on the standard calculator and prints the display.
Digits, ".", "+", "-", "*", "/", "%" and "=" are calculator keys; the words
"neg" and "back" toggle the sign and remove the last character.

  smartcalc calc 12 + 30 =
  smartcalc calc 7 neg "*" 6 =`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		km, err := a.Keymap("calculator")
		if err != nil {
			return err
		}

		if calcFresh {
			if err := a.Calculator.Clear(ctx); err != nil {
				return err
			}
		}
		for _, key := range calcKeys(args) {
			if key == "neg" {
				err = a.Calculator.ToggleSign(ctx)
			} else {
				var handled bool
				handled, err = km.Dispatch(ctx, key)
				if !handled {
					return fmt.Errorf("unknown key %q", key)
				}
			}
			if err != nil {
				return err
			}
		}

		printCalculator(a.Calculator.State())
		return nil
	},
}

// calcKeys splits arguments into single key presses. "neg" and "back"
// are kept whole.
func calcKeys(args []string) []string {
	var keys []string
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "neg":
			keys = append(keys, "neg")
			continue
		case "back":
			keys = append(keys, "backspace")
			continue
		}
		for _, r := range arg {
			if r == ' ' {
				continue
			}
			keys = append(keys, string(r))
		}
	}
	return keys
}

func printCalculator(s calculator.State) {
	if s.Expression != "" {
		fmt.Println(s.Expression)
	}
	fmt.Println(s.CurrentValue)
}

func init() {
	calcCmd.Flags().BoolVar(&calcFresh, "fresh", true, "clear the calculator before pressing keys")
	rootCmd.AddCommand(calcCmd)
}
