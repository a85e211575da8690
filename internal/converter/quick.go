package converter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/smartcalc/internal/api"
	"github.com/ziadkadry99/smartcalc/internal/format"
)

// SampleValues are the inputs of the quick conversion table.
var SampleValues = []float64{1, 5, 10, 25, 50, 100}

// QuickRow is one line of the quick conversion table.
type QuickRow struct {
	Value  float64 `json:"value"`
	Result string  `json:"result"`
	Err    error   `json:"-"`
}

// QuickTable converts every sample value between the selected units. The
// requests run concurrently and complete in any order; each result lands
// in the row of its own sample value. onRow, if set, is called from the
// request goroutines as each row completes. A failed row holds "Error".
func (c *Converter) QuickTable(ctx context.Context, onRow func(QuickRow)) ([]QuickRow, error) {
	c.mu.Lock()
	from, to, category := c.state.FromUnit, c.state.ToUnit, c.state.Category
	c.mu.Unlock()
	if from == "" || to == "" {
		return nil, ErrUnitsNotSelected
	}

	rows := make([]QuickRow, len(SampleValues))
	var g errgroup.Group
	for i, v := range SampleValues {
		g.Go(func() error {
			row := QuickRow{Value: v}
			res, err := c.api.Convert(ctx, api.ConvertRequest{
				Value:    v,
				FromUnit: from,
				ToUnit:   to,
				Category: category,
			})
			switch {
			case err != nil:
				row.Result, row.Err = outputError, err
			case res.Success:
				row.Result = format.Default(res.Result)
			}
			rows[i] = row
			if onRow != nil {
				onRow(row)
			}
			return nil
		})
	}
	_ = g.Wait()
	return rows, nil
}
