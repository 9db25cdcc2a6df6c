package engine

// ball is the in-flight record for one resolution. It lives only for the
// duration of a resolve call.
type ball struct {
	row, col int
	color    Color
	startRow int
}

// leave removes the ball from its current cell. A shared start marker
// keeps the other color's ball behind.
func (bl *ball) leave(b *Board) {
	switch b.At(bl.row, bl.col) {
	case BothBalls:
		b.Set(bl.row, bl.col, bl.color.Other().Marker())
	case bl.color.Marker():
		b.Set(bl.row, bl.col, Empty)
	}
}

// resolve drops the ball at (row, col) until it comes to rest, then credits
// its color with twice the rows it descended. It reports whether the ball
// moved at all.
func (e *Engine) resolve(row, col int) bool {
	bl := ball{row: row, col: col, startRow: row}
	if row == 0 {
		bl.color = e.active
	} else {
		bl.color = colorOf(e.board.At(row, col))
	}

	last := e.board.rows - 1
	limit := e.board.rows * e.board.cols * 8
	moved := false

	for step := 0; step < limit && bl.row < last; step++ {
		below := e.board.At(bl.row+1, bl.col)
		if !below.passable() {
			break
		}
		moved = true

		rolling := true
		switch below {
		case Empty:
			e.fall(&bl)
		case Bonus:
			e.collect(bl.row+1, bl.col)
			e.fall(&bl)
		case RedirectLeft, RedirectRight:
			rolling = e.roll(&bl, below)
		case Portal:
			rolling = e.portals.teleport(e.board, &bl, e.rng)
		}
		if !rolling {
			break
		}
	}

	finalRow := bl.row
	if bl.row >= e.board.rows-2 {
		e.board.Set(bl.row, bl.col, Empty)
		finalRow = (e.board.rows - 3) * 2
	}
	e.scores.Add(bl.color, (finalRow-bl.startRow)*2)
	return moved
}

func (e *Engine) fall(bl *ball) {
	bl.leave(e.board)
	bl.row++
	e.board.Set(bl.row, bl.col, bl.color.Marker())
}

// collect credits the mover with a bonus and clears it.
func (e *Engine) collect(row, col int) {
	e.scores.Add(e.active, e.bonusValue)
	e.board.Set(row, col, Empty)
}

// roll shifts the ball one column along the arrow beneath it, flipping the
// arrow behind it. It reports false when the shift is blocked.
func (e *Engine) roll(bl *ball, arrow Cell) bool {
	dest := bl.col + 1
	if arrow == RedirectLeft {
		dest = bl.col - 1
	}
	if !e.board.InBounds(bl.row, dest) {
		return false
	}
	if e.board.At(bl.row, dest) == Bonus {
		e.collect(bl.row, dest)
	}

	switch e.board.At(bl.row, dest) {
	case Portal:
		e.board.Set(bl.row+1, bl.col, arrow.flipped())
		return e.portals.teleport(e.board, bl, e.rng)
	case Empty:
		bl.leave(e.board)
		e.board.Set(bl.row+1, bl.col, arrow.flipped())
		bl.col = dest
		e.board.Set(bl.row, bl.col, bl.color.Marker())
		return true
	default:
		return false
	}
}
