package core

// PlayerID identifies a seat in a two-player game.
// Player1 moves first (red); Player2 is the second seat (blue).
type PlayerID int

const (
	NoPlayer PlayerID = iota
	Player1
	Player2
)

// String returns "P1", "P2" or "-".
func (p PlayerID) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return "-"
	}
}

// Opponent returns the other seat.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return NoPlayer
	}
}
