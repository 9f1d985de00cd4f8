package ui

// cursor tracks a selected row and the first visible row of a list.
type cursor struct {
	pos    int
	offset int
}

// move shifts the cursor by delta rows, clamped to [0, n).
func (c *cursor) move(delta, n int) {
	c.pos += delta
	c.clamp(n)
}

// jump places the cursor on the first (top) or last row.
func (c *cursor) jump(top bool, n int) {
	if top {
		c.pos = 0
	} else {
		c.pos = n - 1
	}
	c.clamp(n)
}

func (c *cursor) reset() {
	c.pos = 0
	c.offset = 0
}

func (c *cursor) clamp(n int) {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
}

// visible returns the [start, end) row range for a list of n rows shown in
// height lines, scrolling so the cursor keeps ScrollMargin rows around it.
func (c *cursor) visible(n, height int) (start, end int) {
	if height <= 0 || n == 0 {
		return 0, 0
	}
	margin := min(ScrollMargin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = c.pos - margin
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = max(0, min(c.offset, n-height))
	return c.offset, min(n, c.offset+height)
}
