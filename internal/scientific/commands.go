package scientific

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ziadkadry99/smartcalc/internal/dispatch"
	"github.com/ziadkadry99/smartcalc/internal/format"
	"github.com/ziadkadry99/smartcalc/internal/history"
)

// Commands returns the scientific calculator's action table.
func (c *Calculator) Commands() *dispatch.Table {
	t := dispatch.NewTable()
	t.Register("calculate", func(ctx context.Context, _ string) error { return c.Calculate(ctx) })
	t.Register("input", func(_ context.Context, arg string) error {
		c.SetInput(arg)
		return nil
	})
	t.Register("insert_function", func(_ context.Context, arg string) error {
		c.InsertFunction(arg)
		return nil
	})
	t.Register("insert_text", func(_ context.Context, arg string) error {
		c.InsertText(arg)
		return nil
	})
	t.Register("cursor", func(_ context.Context, arg string) error {
		pos, err := strconv.Atoi(arg)
		if err != nil {
			return err
		}
		c.MoveCursor(pos)
		return nil
	})
	t.Register("backspace", func(context.Context, string) error {
		c.Backspace()
		return nil
	})
	t.Register("clear_input", func(context.Context, string) error {
		c.ClearInput()
		return nil
	})
	t.Register("angle_mode", c.SetAngleMode)
	t.Register("function", c.runFunction)
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

// runFunction handles "function" with an argument of the form
// "<name> <value>" and shows the result.
func (c *Calculator) runFunction(ctx context.Context, arg string) error {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return fmt.Errorf("function expects \"<name> <value>\", got %q", arg)
	}
	value, ok := format.ParseNumber(fields[1])
	if !ok {
		return fmt.Errorf("invalid number %q", fields[1])
	}

	out, err := c.Function(ctx, fields[0], value)
	c.edit(func() {
		if err != nil {
			c.state.Result = "Error: " + err.Error()
			c.state.ResultOK = false
			return
		}
		if out != "" {
			c.state.Result = "= " + out
			c.state.ResultOK = true
		}
	})
	return err
}

// Keymap binds the scientific calculator's keyboard shortcuts to table.
func Keymap(t *dispatch.Table) *dispatch.Keymap {
	km := dispatch.NewKeymap(t)
	km.Add("enter", "calculate", "")
	km.Add(dispatch.KeyString("enter", true, false, false), "calculate", "")
	km.Add(dispatch.KeyString("l", true, false, false), "clear_input", "")
	km.Add(dispatch.KeyString("h", true, false, false), "clear_history", "")
	km.Add(dispatch.KeyString("d", true, false, false), "angle_mode", Degrees)
	km.Add(dispatch.KeyString("r", true, false, false), "angle_mode", Radians)
	km.Add(dispatch.KeyString("g", true, false, false), "angle_mode", Gradians)
	km.Add("backspace", "backspace", "")
	return km
}

const historyShown = 10

// RenderHistory writes the most recent evaluations.
func RenderHistory(w io.Writer, entries []history.Entry[Record]) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No calculations in history")
		return
	}
	if len(entries) > historyShown {
		entries = entries[:historyShown]
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  [%d] %s\n", e.ID, e.Record.Expression)
		fmt.Fprintf(w, "      = %s   [%s]   %s\n", e.Record.Result, e.Record.AngleMode, format.Stamp(e.Timestamp))
	}
}
