package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// glyphs used by layout():
//
//	.  Empty      r  RedBall     b  BlueBall   B  BothBalls
//	#  Obstacle   <  RedirectLeft  >  RedirectRight
//	$  Bonus      O  Portal
var glyphs = map[rune]Cell{
	'.': Empty,
	'r': RedBall,
	'b': BlueBall,
	'B': BothBalls,
	'#': Obstacle,
	'<': RedirectLeft,
	'>': RedirectRight,
	'$': Bonus,
	'O': Portal,
}

func layout(t *testing.T, lines ...string) [][]Cell {
	t.Helper()
	grid := make([][]Cell, len(lines))
	for r, line := range lines {
		for _, ch := range line {
			c, ok := glyphs[ch]
			require.Truef(t, ok, "unknown glyph %q", ch)
			grid[r] = append(grid[r], c)
		}
	}
	return grid
}

func mustEngine(t *testing.T, seed int64, lines ...string) *Engine {
	t.Helper()
	e, err := NewFromLayout(layout(t, lines...), DefaultBonusValue, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return e
}

// moveTo walks the active player to col.
func moveTo(e *Engine, col int) {
	for e.player(e.active).Column > col && e.MoveLeft() {
	}
	for e.player(e.active).Column < col && e.MoveRight() {
	}
}

// kickableColumn returns a column the active player can kick from, or -1.
func kickableColumn(e *Engine) int {
	for col := 0; col < e.board.cols; col++ {
		if e.active.owns(e.board.At(0, col)) && e.board.At(1, col) == Empty {
			return col
		}
	}
	return -1
}
