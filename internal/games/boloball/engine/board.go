package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is wrapped by the value a Board accessor panics with
	// when called with coordinates outside the grid.
	ErrOutOfBounds = errors.New("engine: cell out of bounds")

	// ErrBadLayout is returned by NewFromLayout for grids that cannot host a game.
	ErrBadLayout = errors.New("engine: bad layout")
)

// Board is a rows x cols grid stored row-major.
type Board struct {
	rows, cols int
	cells      []Cell
}

func newBoard(rows, cols int) *Board {
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// InBounds reports whether (row, col) is on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the cell at (row, col). It panics with an error wrapping
// ErrOutOfBounds if the coordinates are off the board.
func (b *Board) At(row, col int) Cell {
	return b.cells[b.index(row, col)]
}

// Set writes the cell at (row, col). It panics like At.
func (b *Board) Set(row, col int, c Cell) {
	b.cells[b.index(row, col)] = c
}

func (b *Board) index(row, col int) int {
	if !b.InBounds(row, col) {
		panic(fmt.Errorf("%w: (%d,%d) on %dx%d board", ErrOutOfBounds, row, col, b.rows, b.cols))
	}
	return row*b.cols + col
}

// Count returns how many cells hold the given kind.
func (b *Board) Count(kind Cell) int {
	n := 0
	for _, c := range b.cells {
		if c == kind {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{rows: b.rows, cols: b.cols, cells: cells}
}

// Grid returns a freshly allocated [row][col] copy of the board.
func (b *Board) Grid() [][]Cell {
	grid := make([][]Cell, b.rows)
	for r := range grid {
		grid[r] = make([]Cell, b.cols)
		copy(grid[r], b.cells[r*b.cols:(r+1)*b.cols])
	}
	return grid
}

// freeColumns returns the columns of row that hold Empty.
func (b *Board) freeColumns(row int) []int {
	free := make([]int, 0, b.cols)
	for col := 0; col < b.cols; col++ {
		if b.At(row, col) == Empty {
			free = append(free, col)
		}
	}
	return free
}
