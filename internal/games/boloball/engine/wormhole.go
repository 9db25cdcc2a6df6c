package engine

import "math/rand"

// WormholeNetwork is the set of live portals.
// It never holds exactly one portal once generation or a teleport completes.
type WormholeNetwork struct {
	portals []Coord
}

// Len returns the number of live portals.
func (w *WormholeNetwork) Len() int { return len(w.portals) }

// Coords returns a copy of the portal coordinates.
func (w *WormholeNetwork) Coords() []Coord {
	out := make([]Coord, len(w.portals))
	copy(out, w.portals)
	return out
}

func (w *WormholeNetwork) add(c Coord) {
	w.portals = append(w.portals, c)
}

func (w *WormholeNetwork) remove(i int) {
	w.portals = append(w.portals[:i], w.portals[i+1:]...)
}

// clear deregisters every portal and blanks its cell.
func (w *WormholeNetwork) clear(b *Board) {
	for _, p := range w.portals {
		b.Set(p.Row, p.Col, Empty)
	}
	w.portals = w.portals[:0]
}

// unpairedCleanup drops a lone remaining portal.
func (w *WormholeNetwork) unpairedCleanup(b *Board) {
	if len(w.portals) == 1 {
		w.clear(b)
	}
}

// teleport moves the ball out through a uniformly chosen portal.
//
// If the cell beneath the exit portal is Empty the ball lands there and the
// portal survives. Otherwise the ball takes the portal's own cell, consuming
// it, and a lone survivor is removed as well. It reports false when there is
// no portal to exit through.
func (w *WormholeNetwork) teleport(b *Board, bl *ball, rng *rand.Rand) bool {
	if len(w.portals) == 0 {
		return false
	}
	i := rng.Intn(len(w.portals))
	exit := w.portals[i]

	bl.leave(b)
	bl.col = exit.Col

	below := exit.Row + 1
	if b.InBounds(below, exit.Col) && b.At(below, exit.Col) == Empty {
		bl.row = below
	} else {
		bl.row = exit.Row
		w.remove(i)
		b.Set(exit.Row, exit.Col, Empty)
		w.unpairedCleanup(b)
	}
	b.Set(bl.row, bl.col, bl.color.Marker())
	return true
}
