package engine

import "math"

// ScoreKeeper accumulates points per color.
// Totals saturate at zero and at math.MaxUint64 instead of wrapping.
type ScoreKeeper struct {
	red  uint64
	blue uint64
}

// Add applies a signed delta to the color's total.
func (s *ScoreKeeper) Add(c Color, delta int) {
	p := s.slot(c)
	if p == nil {
		return
	}
	if delta >= 0 {
		d := uint64(delta)
		if *p > math.MaxUint64-d {
			*p = math.MaxUint64
			return
		}
		*p += d
		return
	}
	d := uint64(-(delta + 1)) + 1
	if d > *p {
		*p = 0
		return
	}
	*p -= d
}

// Get returns the color's total.
func (s *ScoreKeeper) Get(c Color) uint64 {
	if p := s.slot(c); p != nil {
		return *p
	}
	return 0
}

// Set overwrites the color's total.
func (s *ScoreKeeper) Set(c Color, v uint64) {
	if p := s.slot(c); p != nil {
		*p = v
	}
}

func (s *ScoreKeeper) slot(c Color) *uint64 {
	switch c {
	case Red:
		return &s.red
	case Blue:
		return &s.blue
	default:
		return nil
	}
}
