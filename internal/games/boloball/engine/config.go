package engine

// Board size limits.
const (
	MinRows = 5
	MaxRows = 18
	MinCols = 6
	MaxCols = 27
)

// Frequency ranges. The minimum of each range disables that kind of cell.
const (
	MinGrayFrequency   = -4
	MaxGrayFrequency   = 2
	grayStep           = 2
	MinArrowFrequency  = -6
	MaxArrowFrequency  = 3
	arrowStep          = 3
	MinBonusFrequency  = -2
	MaxBonusFrequency  = 1
	bonusStep          = 1
	MinBonusValue      = 1
	MaxBonusValue      = 99
	DefaultBonusValue  = 10
	portalPlaceRetries = 200
)

// BoardConfig holds board generation parameters.
// Out-of-range values are clamped by Generate, never rejected.
type BoardConfig struct {
	Rows           int  `json:"rows" yaml:"rows"`
	Cols           int  `json:"cols" yaml:"cols"`
	GrayFrequency  int  `json:"grays" yaml:"grays"`
	ArrowFrequency int  `json:"arrows" yaml:"arrows"`
	BonusFrequency int  `json:"bonuses" yaml:"bonuses"`
	BonusValue     int  `json:"bonus_value" yaml:"bonus_value"`
	Wormholes      bool `json:"wormholes" yaml:"wormholes"`
}

// DefaultBoardConfig returns the full-size board with no gray blocks,
// arrows or bonuses and wormholes enabled.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Rows:       MaxRows,
		Cols:       MaxCols,
		BonusValue: DefaultBonusValue,
		Wormholes:  true,
	}
}

// Clamped returns a copy with every field forced into its valid range.
// Frequencies are additionally snapped down onto their step grid.
func (c BoardConfig) Clamped() BoardConfig {
	c.Rows = clamp(c.Rows, MinRows, MaxRows)
	c.Cols = clamp(c.Cols, MinCols, MaxCols)
	c.GrayFrequency = snap(c.GrayFrequency, MinGrayFrequency, MaxGrayFrequency, grayStep)
	c.ArrowFrequency = snap(c.ArrowFrequency, MinArrowFrequency, MaxArrowFrequency, arrowStep)
	c.BonusFrequency = snap(c.BonusFrequency, MinBonusFrequency, MaxBonusFrequency, bonusStep)
	c.BonusValue = clamp(c.BonusValue, MinBonusValue, MaxBonusValue)
	return c
}

// countRange is the set of per-row counts a generator draws from.
// A nil range means the cell kind is disabled.
type countRange []int

// grayCounts, arrowCounts and bonusCounts shift a base range by the frequency.
func grayCounts(freq int) countRange {
	if freq == MinGrayFrequency {
		return nil
	}
	return shifted([]int{0, 1, 2, 3, 4}, freq)
}

func arrowCounts(freq int) countRange {
	if freq == MinArrowFrequency {
		return nil
	}
	return shifted([]int{3, 4, 5, 6}, freq)
}

func bonusCounts(freq int) countRange {
	if freq == MinBonusFrequency {
		return nil
	}
	return shifted([]int{0, 1, 2}, freq)
}

// portalCounts gives each interior row a one-in-six chance of a portal.
var portalCounts = countRange{0, 0, 0, 0, 0, 1}

func shifted(base []int, by int) countRange {
	out := make(countRange, len(base))
	for i, v := range base {
		out[i] = v + by
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func snap(v, lo, hi, step int) int {
	v = clamp(v, lo, hi)
	return lo + ((v-lo)/step)*step
}
