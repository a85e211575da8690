package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/calculator"
	"github.com/ziadkadry99/smartcalc/internal/converter"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/scientific"
)

var shellFeature string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive session across the three calculators",
	Long: `Starts an interactive prompt. Each line is an action of the current feature
with an optional argument ("number 7", "input 100", "calculate"), a key
press ("key ctrl+d"), or one of the built-in commands listed by "help".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := history.LookupFeature(shellFeature); err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Scientific.SyncAngleMode(cmd.Context()); err != nil {
			a.Logger.Warn("could not sync angle mode", "err", err)
		}

		sh := &shell{app: a, feature: shellFeature, out: os.Stdout}
		return sh.run(cmd.Context())
	},
}

type shell struct {
	app     *app.App
	feature string
	out     io.Writer
}

func (s *shell) run(ctx context.Context) error {
	fmt.Fprintln(s.out, `SmartCalc shell. Type "help" for commands, "quit" to leave.`)
	for {
		prompt := promptui.Prompt{Label: s.feature}
		line, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		quit, err := s.exec(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one line. It reports true when the user asked to leave.
func (s *shell) exec(ctx context.Context, line string) (bool, error) {
	word, arg := parseLine(line)
	switch word {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		return false, s.printHelp()
	case "use":
		if _, err := history.LookupFeature(arg); err != nil {
			return false, err
		}
		s.feature = arg
		return false, s.printState()
	case "state":
		return false, s.printState()
	case "history":
		b, err := s.app.History(s.feature)
		if err != nil {
			return false, err
		}
		b.Render(s.out)
		return false, nil
	case "theme":
		fmt.Fprintf(s.out, "Theme: %s\n", s.app.Theme.Toggle())
		return false, nil
	case "key":
		err := s.app.Guard(ctx, s.feature+"["+arg+"]", func() error {
			km, err := s.app.Keymap(s.feature)
			if err != nil {
				return err
			}
			handled, err := km.Dispatch(ctx, arg)
			if !handled {
				return fmt.Errorf("no binding for key %q", arg)
			}
			return err
		})
		if err != nil {
			return false, err
		}
		return false, s.printState()
	}

	err := s.app.Guard(ctx, s.feature+"."+word, func() error {
		return s.app.Run(ctx, s.feature, word, arg)
	})
	if err != nil {
		return false, err
	}
	// The prompt blocks, so typed input converts now rather than after
	// the quiet period.
	if s.feature == history.Converter.Name && s.app.Converter.Pending() {
		s.app.Converter.Flush()
	}
	return false, s.printState()
}

// parseLine splits a line into a lower-cased command word and the rest.
func parseLine(line string) (word, arg string) {
	word, arg, _ = strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(word), strings.TrimSpace(arg)
}

func (s *shell) printState() error {
	st, err := s.app.State(s.feature)
	if err != nil {
		return err
	}
	switch st := st.(type) {
	case calculator.State:
		if st.Expression != "" {
			fmt.Fprintf(s.out, "  %s\n", st.Expression)
		}
		fmt.Fprintf(s.out, "  %s\n", st.CurrentValue)
	case converter.State:
		if st.Category == "" {
			fmt.Fprintln(s.out, "  no category selected (try: category Longueur)")
			return nil
		}
		fmt.Fprintf(s.out, "  [%s] %s %s -> %s %s\n", st.Category, st.Input, st.FromUnit, st.Output, st.ToUnit)
	case scientific.State:
		fmt.Fprintf(s.out, "  %s\n  %s   [%s]\n", st.Input, st.Result, st.AngleMode)
	}
	return nil
}

func (s *shell) printHelp() error {
	table, err := s.app.Table(s.feature)
	if err != nil {
		return err
	}
	km, err := s.app.Keymap(s.feature)
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Built-in: use <calculator|converter|scientific>, state, history, theme, key <key>, help, quit")
	fmt.Fprintf(s.out, "Actions (%s): %s\n", s.feature, strings.Join(table.Actions(), ", "))
	fmt.Fprintf(s.out, "Keys (%s): %s\n", s.feature, strings.Join(km.Keys(), ", "))
	if s.feature == history.Scientific.Name {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, scientific.Help())
	}
	return nil
}

func init() {
	shellCmd.Flags().StringVarP(&shellFeature, "feature", "f", history.Calculator.Name, "feature to start in")
	rootCmd.AddCommand(shellCmd)
}
