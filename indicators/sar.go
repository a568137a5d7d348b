package indicators

import (
	"fmt"
	"math"

	"github.com/nkaradzhov/lean/market"
)

// ParabolicSAR is Wilder's stop-and-reverse trailing level. While the trend
// is up the value sits below price; a close through it flips the trend.
type ParabolicSAR struct {
	start, step, max float64

	count int
	long  bool
	sar   float64
	ep    float64 // extreme point of the current trend
	af    float64

	prev  market.Bar
	prev2 market.Bar
}

func NewParabolicSAR(start, step, max float64) (*ParabolicSAR, error) {
	if start <= 0 || step <= 0 || max <= 0 {
		return nil, fmt.Errorf("indicators: sar acceleration values must be positive (start=%v step=%v max=%v)", start, step, max)
	}
	if start > max {
		return nil, fmt.Errorf("indicators: sar start %v exceeds max %v", start, max)
	}
	return &ParabolicSAR{start: start, step: step, max: max}, nil
}

func (s *ParabolicSAR) Name() string {
	return fmt.Sprintf("SAR(%g,%g,%g)", s.start, s.step, s.max)
}

func (s *ParabolicSAR) Warmup() int { return 2 }

func (s *ParabolicSAR) Reset() {
	*s = ParabolicSAR{start: s.start, step: s.step, max: s.max}
}

func (s *ParabolicSAR) Update(b market.Bar) {
	s.count++
	switch s.count {
	case 1:
		s.prev = b
		return
	case 2:
		s.long = b.Close >= s.prev.Close
		if s.long {
			s.sar = math.Min(s.prev.Low, b.Low)
			s.ep = math.Max(s.prev.High, b.High)
		} else {
			s.sar = math.Max(s.prev.High, b.High)
			s.ep = math.Min(s.prev.Low, b.Low)
		}
		s.af = s.start
		s.prev2, s.prev = s.prev, b
		return
	}

	next := s.sar + s.af*(s.ep-s.sar)

	if s.long {
		// never above the two prior lows
		next = math.Min(next, math.Min(s.prev.Low, s.prev2.Low))
		if b.Low < next {
			s.long = false
			next = s.ep
			s.ep = b.Low
			s.af = s.start
		} else if b.High > s.ep {
			s.ep = b.High
			s.af = math.Min(s.af+s.step, s.max)
		}
	} else {
		next = math.Max(next, math.Max(s.prev.High, s.prev2.High))
		if b.High > next {
			s.long = true
			next = s.ep
			s.ep = b.High
			s.af = s.start
		} else if b.Low < s.ep {
			s.ep = b.Low
			s.af = math.Min(s.af+s.step, s.max)
		}
	}

	s.sar = next
	s.prev2, s.prev = s.prev, b
}

func (s *ParabolicSAR) Ready() bool {
	return s.count >= 2
}

func (s *ParabolicSAR) Value() float64 {
	if !s.Ready() {
		return 0
	}
	return s.sar
}

// Long reports whether the indicator currently tracks an uptrend.
func (s *ParabolicSAR) Long() bool { return s.long }
