package boloball

import (
	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
	"github.com/vovakirdan/boloball/internal/multiplayer"
)

// BoardSnapshot is the board state sent to match sessions.
type BoardSnapshot struct {
	engine.Snapshot
	Message string `json:"message,omitempty"` // Last announcement
	Moves   int    `json:"moves"`
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (BoardSnapshot) IsGameSnapshot() {}

// Ensure BoardSnapshot implements multiplayer.GameSnapshot
var _ multiplayer.GameSnapshot = BoardSnapshot{}

// Snapshot returns the current board as a BoardSnapshot.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.BoardSnapshot()
}

// BoardSnapshot returns the current board with its concrete type.
func (g *Game) BoardSnapshot() BoardSnapshot {
	if g.eng == nil {
		return BoardSnapshot{}
	}
	return BoardSnapshot{
		Snapshot: g.eng.Snapshot(),
		Message:  g.message,
		Moves:    g.moves,
	}
}
