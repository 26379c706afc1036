package invoice

// Cart accumulates line items in insertion order.
type Cart struct {
	lines []Line
}

// Add validates and appends a line.
func (c *Cart) Add(l Line) error {
	if err := l.Validate(); err != nil {
		return err
	}
	c.lines = append(c.lines, l)
	return nil
}

// Lines returns a copy of the lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Empty reports whether nothing was added.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Reset discards every line.
func (c *Cart) Reset() { c.lines = nil }

// Build finalises the cart into an invoice.
func (c *Cart) Build() Invoice { return Build(c.lines) }
