package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Generate builds a fresh game from cfg. Every field of cfg is clamped first.
//
// Layout:
//   - row 0 is entirely BothBalls
//   - row 1 and the last row are left Empty
//   - each interior row gets gray blocks, then arrows, then bonuses, then
//     (with wormholes on) a one-in-six chance of a portal
//
// A lone portal is paired with a second one if a free interior cell turns up
// within a bounded number of random tries; otherwise it is removed.
//
// A nil rng is replaced with a time-seeded source.
func Generate(cfg BoardConfig, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cfg = cfg.Clamped()

	e := newEngine(newBoard(cfg.Rows, cfg.Cols), cfg.BonusValue, rng)
	for col := 0; col < cfg.Cols; col++ {
		e.board.Set(0, col, BothBalls)
	}

	grays := grayCounts(cfg.GrayFrequency)
	arrows := arrowCounts(cfg.ArrowFrequency)
	bonuses := bonusCounts(cfg.BonusFrequency)

	for row := 2; row <= cfg.Rows-2; row++ {
		e.scatter(row, grays, func() Cell { return Obstacle })
		e.scatter(row, arrows, func() Cell {
			if rng.Intn(2) == 0 {
				return RedirectLeft
			}
			return RedirectRight
		})
		e.scatter(row, bonuses, func() Cell { return Bonus })
		if cfg.Wormholes {
			for _, col := range e.scatter(row, portalCounts, func() Cell { return Portal }) {
				e.portals.add(Coord{Row: row, Col: col})
			}
		}
	}

	if cfg.Wormholes {
		e.pairPortals()
	}
	return e
}

// scatter rolls a count from counts and places that many cells of kind()
// on free columns of row. It returns the columns used.
func (e *Engine) scatter(row int, counts countRange, kind func() Cell) []int {
	if len(counts) == 0 {
		return nil
	}
	n := counts[e.rng.Intn(len(counts))]
	free := e.board.freeColumns(row)

	var placed []int
	for i := 0; i < n && len(free) > 0; i++ {
		j := e.rng.Intn(len(free))
		col := free[j]
		free[j] = free[len(free)-1]
		free = free[:len(free)-1]

		e.board.Set(row, col, kind())
		placed = append(placed, col)
	}
	return placed
}

func (e *Engine) pairPortals() {
	if e.portals.Len() != 1 {
		return
	}
	for try := 0; try < portalPlaceRetries; try++ {
		row := e.rng.Intn(e.board.rows-3) + 2
		col := e.rng.Intn(e.board.cols)
		if e.board.At(row, col) == Empty {
			e.board.Set(row, col, Portal)
			e.portals.add(Coord{Row: row, Col: col})
			return
		}
	}
	e.portals.clear(e.board)
}

// NewFromLayout builds a game from an explicit grid indexed [row][col].
// Portal cells are registered in the wormhole network. The layout is
// copied; later changes to it do not affect the engine.
func NewFromLayout(layout [][]Cell, bonusValue int, rng *rand.Rand) (*Engine, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rows := len(layout)
	if rows < MinRows || rows > MaxRows {
		return nil, fmt.Errorf("%w: %d rows, want %d-%d", ErrBadLayout, rows, MinRows, MaxRows)
	}
	cols := len(layout[0])
	if cols < MinCols || cols > MaxCols {
		return nil, fmt.Errorf("%w: %d columns, want %d-%d", ErrBadLayout, cols, MinCols, MaxCols)
	}

	e := newEngine(newBoard(rows, cols), clamp(bonusValue, MinBonusValue, MaxBonusValue), rng)
	for r, line := range layout {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadLayout, r, len(line), cols)
		}
		for c, cell := range line {
			if cell < Empty || cell > Portal {
				return nil, fmt.Errorf("%w: unknown cell %d at (%d,%d)", ErrBadLayout, int(cell), r, c)
			}
			e.board.Set(r, c, cell)
			if cell == Portal {
				e.portals.add(Coord{Row: r, Col: c})
			}
		}
	}
	if e.portals.Len() == 1 {
		return nil, fmt.Errorf("%w: a portal needs a partner", ErrBadLayout)
	}
	return e, nil
}
