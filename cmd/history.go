package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/history"
)

var historyOutput string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the calculator, converter and scientific histories",
	Long:  `Lists, edits, exports and imports the persisted history of one feature: calculator, converter or scientific.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list <feature>",
	Short: "Show a feature's history, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(args[0], func(b app.Book) error {
			b.Render(os.Stdout)
			return nil
		})
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <feature> <id>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		return withHistory(args[0], func(b app.Book) error {
			return b.Remove(id)
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <feature>",
	Short: "Empty a feature's history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(args[0], func(b app.Book) error {
			b.Clear(cmd.Context())
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <feature>",
	Short: "Write a feature's history to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(args[0], func(b app.Book) error {
			path := historyOutput
			if path == "" {
				path = history.ExportFilename(b.Feature(), time.Now())
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := b.WriteExport(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}
			fmt.Printf("Exported %d entries to %s\n", b.Len(), path)
			return nil
		})
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <feature> <file-or-glob>",
	Short: "Replace a feature's history with an exported file",
	Long: `Replaces a feature's history with the contents of an export file. When the
argument is a glob such as "exports/**/smartcalc-history-*.json", the most
recently modified match is imported.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := newestMatch(args[1])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		return withHistory(args[0], func(b app.Book) error {
			n, err := b.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d entries from %s\n", n, path)
			return nil
		})
	},
}

// withHistory opens the app and runs fn on the named feature's history.
func withHistory(feature string, fn func(app.Book) error) error {
	if _, err := history.LookupFeature(feature); err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := a.History(feature)
	if err != nil {
		return err
	}
	return fn(b)
}

// newestMatch expands pattern and returns the most recently modified
// regular file it matches. A plain path matches itself.
func newestMatch(pattern string) (string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var newest string
	var newestTime time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest, newestTime = m, info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no file matches %q", pattern)
	}
	return newest, nil
}

func init() {
	historyExportCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "output file (default smartcalc-<feature>-<date>.json)")
	historyCmd.AddCommand(historyListCmd, historyRemoveCmd, historyClearCmd, historyExportCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}
