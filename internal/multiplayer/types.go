// Package multiplayer pairs sessions into two-player matches and runs the
// authoritative turn loop for each match.
//
// Transports (SSH, WebSocket) talk to the Coordinator through
// CoordinatorMessage values and receive SessionEvent values back on their
// SessionHandle. Neither side depends on the other's transport.
package multiplayer

import (
	"errors"

	"github.com/google/uuid"

	"github.com/vovakirdan/boloball/internal/core"
)

// PlayerID is an alias to core.PlayerID for convenience.
// Player1 plays red and moves first; Player2 plays blue.
type PlayerID = core.PlayerID

// Re-export player constants for convenience.
const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID uniquely identifies a player's session (SSH connection or websocket).
type SessionID string

// NewSessionID returns a random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// MatchID uniquely identifies a game match.
type MatchID string

// NewMatchID returns a random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// MatchMode describes where a match was played.
type MatchMode int

const (
	// MatchModeHotSeat is two players sharing one keyboard.
	MatchModeHotSeat MatchMode = iota

	// MatchModeOnline is two sessions paired by the coordinator.
	MatchModeOnline
)

// String returns the storage name of the match mode.
func (m MatchMode) String() string {
	switch m {
	case MatchModeHotSeat:
		return "hotseat"
	case MatchModeOnline:
		return "online"
	default:
		return "unknown"
	}
}

// Lobby errors reported to sessions through LobbyErrorEvent.
var (
	ErrLobbyNotFound  = errors.New("lobby not found")
	ErrLobbyFull      = errors.New("lobby is full")
	ErrAlreadyQueued  = errors.New("already in a lobby")
	ErrOwnLobby       = errors.New("cannot join your own lobby")
	ErrAlreadyPlaying = errors.New("already in a match")
)
