package market

import "fmt"

// Consolidator merges every N consecutive bars into one. N == 1 passes
// bars through unchanged.
type Consolidator struct {
	every   int
	count   int
	working Bar
}

func NewConsolidator(every int) (*Consolidator, error) {
	if every < 1 {
		return nil, fmt.Errorf("market: consolidator needs every >= 1, got %d", every)
	}
	return &Consolidator{every: every}, nil
}

func (c *Consolidator) Every() int { return c.every }

// Update adds a bar and returns the consolidated bar once every N inputs.
func (c *Consolidator) Update(b Bar) (Bar, bool) {
	if c.count == 0 {
		c.working = b
	} else {
		if b.High > c.working.High {
			c.working.High = b.High
		}
		if b.Low < c.working.Low {
			c.working.Low = b.Low
		}
		c.working.Close = b.Close
		c.working.Volume += b.Volume
		c.working.Period = b.EndTime().Sub(c.working.Time)
	}
	c.count++

	if c.count < c.every {
		return Bar{}, false
	}

	out := c.working
	c.count = 0
	c.working = Bar{}
	return out, true
}

// Reset drops any partially built bar.
func (c *Consolidator) Reset() {
	c.count = 0
	c.working = Bar{}
}
