package calculator

import (
	"context"
	"strconv"

	"github.com/ziadkadry99/smartcalc/internal/dispatch"
)

// Commands returns the calculator's action table. Action names match the
// service's, plus "backspace", "use_history" and "clear_history".
func (c *Calculator) Commands() *dispatch.Table {
	t := dispatch.NewTable()
	t.Register(ActionNumber, c.Number)
	t.Register(ActionOperator, c.Operator)
	t.Register(ActionEquals, func(ctx context.Context, _ string) error { return c.Equals(ctx) })
	t.Register(ActionDecimal, func(ctx context.Context, _ string) error { return c.Decimal(ctx) })
	t.Register(ActionPercentage, func(ctx context.Context, _ string) error { return c.Percentage(ctx) })
	t.Register(ActionToggleSign, func(ctx context.Context, _ string) error { return c.ToggleSign(ctx) })
	t.Register(ActionClear, func(ctx context.Context, _ string) error { return c.Clear(ctx) })
	t.Register("backspace", func(context.Context, string) error {
		c.Backspace()
		return nil
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

// Keymap binds the calculator's keyboard shortcuts to table.
func Keymap(t *dispatch.Table) *dispatch.Keymap {
	km := dispatch.NewKeymap(t)
	for d := '0'; d <= '9'; d++ {
		km.Add(string(d), ActionNumber, string(d))
	}
	km.Add("+", ActionOperator, "+")
	km.Add("-", ActionOperator, "-")
	km.Add("*", ActionOperator, "×")
	km.Add("/", ActionOperator, "÷")
	km.Add("enter", ActionEquals, "")
	km.Add("=", ActionEquals, "")
	km.Add(".", ActionDecimal, "")
	km.Add("escape", ActionClear, "")
	km.Add("c", ActionClear, "")
	km.Add("backspace", "backspace", "")
	km.Add("%", ActionPercentage, "")
	return km
}
