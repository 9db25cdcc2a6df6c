// Package engine implements the BoloBall rules: board generation, kicks,
// fall resolution through redirectors, bonuses and portals, scoring, and
// terminal-state detection.
//
// The package is UI-agnostic and deterministic for a given RNG seed.
// An Engine is not safe for concurrent use; callers serialize access
// (the multiplayer match loop owns one engine per match).
package engine

import "fmt"

// Cell is the content of one board square.
// Numeric values match the wire protocol used by browser clients.
type Cell int

const (
	Empty Cell = iota
	RedBall
	BlueBall
	BothBalls
	Obstacle
	RedirectLeft
	RedirectRight
	Bonus
	Portal
)

// String returns the name of the cell kind.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "Empty"
	case RedBall:
		return "RedBall"
	case BlueBall:
		return "BlueBall"
	case BothBalls:
		return "BothBalls"
	case Obstacle:
		return "Obstacle"
	case RedirectLeft:
		return "RedirectLeft"
	case RedirectRight:
		return "RedirectRight"
	case Bonus:
		return "Bonus"
	case Portal:
		return "Portal"
	default:
		return fmt.Sprintf("Cell(%d)", int(c))
	}
}

// IsBall reports whether the cell holds at least one ball marker.
func (c Cell) IsBall() bool {
	return c == RedBall || c == BlueBall || c == BothBalls
}

// IsRedirect reports whether the cell is an arrow.
func (c Cell) IsRedirect() bool {
	return c == RedirectLeft || c == RedirectRight
}

// passable reports whether a ball resting above this cell keeps moving.
func (c Cell) passable() bool {
	switch c {
	case Empty, RedirectLeft, RedirectRight, Bonus, Portal:
		return true
	default:
		return false
	}
}

// flipped returns the opposite arrow. Non-arrows are returned unchanged.
func (c Cell) flipped() Cell {
	switch c {
	case RedirectLeft:
		return RedirectRight
	case RedirectRight:
		return RedirectLeft
	default:
		return c
	}
}

// Color identifies one of the two players.
type Color uint8

const (
	NoColor Color = iota
	Red
	Blue
)

// String returns "red", "blue" or "none".
func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Blue:
		return "blue"
	default:
		return "none"
	}
}

// MarshalText encodes the color as its lowercase name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses "red" or "blue".
func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "red":
		*c = Red
	case "blue":
		*c = Blue
	case "none", "":
		*c = NoColor
	default:
		return fmt.Errorf("engine: unknown color %q", text)
	}
	return nil
}

// Other returns the opposing color.
func (c Color) Other() Color {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return NoColor
	}
}

// Marker returns the single-ball cell for this color.
func (c Color) Marker() Cell {
	switch c {
	case Red:
		return RedBall
	case Blue:
		return BlueBall
	default:
		return Empty
	}
}

// owns reports whether a row-0 cell holds a ball this color may kick.
func (c Color) owns(cell Cell) bool {
	return cell == BothBalls || (cell != Empty && cell == c.Marker())
}

// colorOf returns the color of a single-ball cell.
func colorOf(cell Cell) Color {
	switch cell {
	case RedBall:
		return Red
	case BlueBall:
		return Blue
	default:
		return NoColor
	}
}

// Coord is a board position. Row 0 is the top (home) row.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"column"`
}

// String returns "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
