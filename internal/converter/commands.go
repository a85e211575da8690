package converter

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ziadkadry99/smartcalc/internal/dispatch"
	"github.com/ziadkadry99/smartcalc/internal/format"
	"github.com/ziadkadry99/smartcalc/internal/history"
)

// Commands returns the converter's action table.
func (c *Converter) Commands() *dispatch.Table {
	t := dispatch.NewTable()
	t.Register("category", c.LoadUnits)
	t.Register("input", func(ctx context.Context, arg string) error {
		c.SetInput(ctx, arg)
		return nil
	})
	t.Register("from", func(ctx context.Context, arg string) error {
		return c.SetUnits(ctx, arg, c.State().ToUnit)
	})
	t.Register("to", func(ctx context.Context, arg string) error {
		return c.SetUnits(ctx, c.State().FromUnit, arg)
	})
	t.Register("convert", func(ctx context.Context, _ string) error { return c.Submit(ctx) })
	t.Register("swap", func(ctx context.Context, _ string) error { return c.Swap(ctx) })
	t.Register("quick_table", func(ctx context.Context, _ string) error {
		_, err := c.QuickTable(ctx, nil)
		return err
	})
	t.Register("use_history", func(ctx context.Context, arg string) error {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return err
		}
		return c.UseHistory(ctx, id)
	})
	t.Register("clear_history", func(ctx context.Context, _ string) error {
		c.ClearHistory(ctx)
		return nil
	})
	return t
}

// Keymap binds the converter's keyboard shortcuts to table.
func Keymap(t *dispatch.Table) *dispatch.Keymap {
	km := dispatch.NewKeymap(t)
	km.Add("enter", "convert", "")
	return km
}

// historyShown caps how many conversions the history panel lists.
const historyShown = 10

// RenderHistory writes the most recent conversions.
func RenderHistory(w io.Writer, entries []history.Entry[Record]) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No conversions in history")
		return
	}
	if len(entries) > historyShown {
		entries = entries[:historyShown]
	}
	for _, e := range entries {
		r := e.Record
		fmt.Fprintf(w, "  [%d] %s %s → %s\n", e.ID, format.Default(r.Value), r.FromUnit, r.ToUnit)
		fmt.Fprintf(w, "      %s %s   [%s]   %s\n", r.Result, r.ToUnit, r.Category, format.Stamp(e.Timestamp))
	}
}

// RenderGuide writes the units guide of the loaded category.
func RenderGuide(w io.Writer, category string, units []string) {
	fmt.Fprintln(w, category)
	for _, d := range Describe(category, units) {
		fmt.Fprintf(w, "  %-10s %s\n", d.Unit, d.Description)
	}
}
