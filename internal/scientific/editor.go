package scientific

// SetInput replaces the expression and moves the cursor to its end.
func (c *Calculator) SetInput(text string) {
	c.edit(func() {
		c.input = []rune(text)
		c.state.Cursor = len(c.input)
	})
}

// MoveCursor places the cursor at pos, clamped to the input.
func (c *Calculator) MoveCursor(pos int) {
	c.edit(func() {
		c.state.Cursor = clamp(pos, 0, len(c.input))
	})
}

// InsertFunction inserts "name(" at the cursor.
func (c *Calculator) InsertFunction(name string) {
	c.InsertText(name + "(")
}

// InsertText inserts text at the cursor and moves the cursor after it.
func (c *Calculator) InsertText(text string) {
	c.edit(func() {
		ins := []rune(text)
		at := clamp(c.state.Cursor, 0, len(c.input))
		next := make([]rune, 0, len(c.input)+len(ins))
		next = append(next, c.input[:at]...)
		next = append(next, ins...)
		next = append(next, c.input[at:]...)
		c.input = next
		c.state.Cursor = at + len(ins)
	})
}

// Backspace deletes the character before the cursor.
func (c *Calculator) Backspace() {
	c.edit(func() {
		at := clamp(c.state.Cursor, 0, len(c.input))
		if at == 0 {
			return
		}
		c.input = append(c.input[:at-1:at-1], c.input[at:]...)
		c.state.Cursor = at - 1
	})
}

// ClearInput empties the expression and resets the result area.
func (c *Calculator) ClearInput() {
	c.edit(func() {
		c.input = nil
		c.state.Cursor = 0
		c.state.Result = Placeholder
		c.state.ResultOK = false
	})
}

func (c *Calculator) edit(fn func()) {
	c.mu.Lock()
	fn()
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
