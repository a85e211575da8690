package calculator

import (
	"fmt"
	"io"

	"github.com/ziadkadry99/smartcalc/internal/format"
	"github.com/ziadkadry99/smartcalc/internal/history"
)

// RenderHistory writes the list the way the history panel shows it.
func RenderHistory(w io.Writer, entries []history.Entry[Record]) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No calculations in history")
		return
	}
	for _, e := range entries {
		expr := e.Record.Expression
		if expr == "" {
			expr = "direct calculation"
		}
		fmt.Fprintf(w, "  [%d] %s\n", e.ID, expr)
		fmt.Fprintf(w, "      = %s   %s\n", e.Record.Result, format.Stamp(e.Timestamp))
	}
}
