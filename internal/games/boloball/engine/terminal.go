package engine

import "fmt"

// Mobility summarizes which colors still have a legal kick.
//
// The numbering is fixed by the browser protocol: code 2 means only red can
// still move and code 1 means only blue can.
type Mobility int

const (
	MobilityUnknown  Mobility = -1
	MobilityNeither  Mobility = 0
	MobilityBlueOnly Mobility = 1
	MobilityRedOnly  Mobility = 2
	MobilityBoth     Mobility = 3
)

// Player-facing messages for each mobility code.
const (
	MsgNeitherCanMove = "Neither player can move. Removing gray blocks."
	MsgRedStuck       = "Red cannot move. They get no more moves."
	MsgBlueStuck      = "Blue cannot move. They get no more moves."
)

// Message returns the text announced after a kick with this outcome.
func (m Mobility) Message() string {
	switch m {
	case MobilityNeither:
		return MsgNeitherCanMove
	case MobilityRedOnly:
		return MsgBlueStuck
	case MobilityBlueOnly:
		return MsgRedStuck
	default:
		return ""
	}
}

func (m Mobility) String() string {
	switch m {
	case MobilityUnknown:
		return "unknown"
	case MobilityNeither:
		return "neither"
	case MobilityBlueOnly:
		return "blue-only"
	case MobilityRedOnly:
		return "red-only"
	case MobilityBoth:
		return "both"
	default:
		return fmt.Sprintf("Mobility(%d)", int(m))
	}
}

// canKick reports whether the color has a home-row ball with Empty beneath.
func (e *Engine) canKick(c Color) bool {
	for col := 0; col < e.board.cols; col++ {
		if c.owns(e.board.At(0, col)) && e.board.At(1, col) == Empty {
			return true
		}
	}
	return false
}

// refreshMobility re-derives the sticky mobility flags and returns the code.
func (e *Engine) refreshMobility() Mobility {
	for _, c := range [...]Color{Red, Blue} {
		p := e.player(c)
		if p.Mobile {
			p.Mobile = e.canKick(c)
		}
	}
	switch {
	case e.red.Mobile && e.blue.Mobile:
		return MobilityBoth
	case e.red.Mobile:
		return MobilityRedOnly
	case e.blue.Mobile:
		return MobilityBlueOnly
	default:
		return MobilityNeither
	}
}

// unstick clears every gray block, then lets each resting ball whose cell
// below opened up fall, scanning bottom to top. It runs once.
func (e *Engine) unstick() {
	for row := 0; row < e.board.rows; row++ {
		for col := 0; col < e.board.cols; col++ {
			if e.board.At(row, col) == Obstacle {
				e.board.Set(row, col, Empty)
			}
		}
	}
	for row := e.board.rows - 2; row >= 1; row-- {
		for col := 0; col < e.board.cols; col++ {
			c := e.board.At(row, col)
			if (c == RedBall || c == BlueBall) && e.board.At(row+1, col) == Empty {
				e.resolve(row, col)
			}
		}
	}
}
