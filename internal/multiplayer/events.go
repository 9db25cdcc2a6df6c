package multiplayer

import "github.com/vovakirdan/boloball/internal/core"

// SessionEvent flows from the coordinator (or a match) to one session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells a host the join code of its new room.
type LobbyCreatedEvent struct {
	Code   string
	GameID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a rejected lobby request.
// Err wraps one of the Err* lobby errors when there is one.
type LobbyErrorEvent struct {
	Message string
	Err     error
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent goes to both seats once a room is full.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID // seat of the receiving session
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent tells a host the joiner left before kickoff.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// WaitingForOpponentEvent tells a quick-match session it holds an open room.
type WaitingForOpponentEvent struct {
	Code   string
	GameID string
}

func (WaitingForOpponentEvent) sessionEvent() {}

// MatchStartedEvent carries the match ID and the receiver's seat.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
	GameID  string
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent closes a match for both seats.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  PlayerID // NoPlayer on a tie or an abandoned match
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason says how a match or room was closed.
// String values are persisted as the end reason of a match record.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota // game over on the board
	MatchEndReasonDisconnect
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent is a board broadcast. Seq grows by one per snapshot
// within a match, so receivers can ignore stale ones.
type SnapshotEvent struct {
	MatchID  MatchID
	Seq      uint64
	Snapshot GameSnapshot
}

func (SnapshotEvent) sessionEvent() {}

// NoticeEvent is a one-line announcement, e.g. a player getting stuck.
type NoticeEvent struct {
	MatchID MatchID
	Message string
}

func (NoticeEvent) sessionEvent() {}

// GameSnapshot is the game-specific payload of a SnapshotEvent.
type GameSnapshot interface {
	IsGameSnapshot()
}

// CoordinatorMessage flows from a session to the coordinator loop.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a private room for the sender.
type CreateLobbyMsg struct {
	SessionID SessionID
	GameID    string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg takes the second seat of the room with Code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// QuickMatchMsg pairs the session with the oldest waiting quick-match
// session of the same variant, or opens a new room.
type QuickMatchMsg struct {
	SessionID SessionID
	GameID    string
}

func (QuickMatchMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a room. Only its host may send it.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg gives up the joiner seat before kickoff.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits a running match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerIntentMsg carries one move intent from a session.
// The coordinator resolves the session's match and side.
type PlayerIntentMsg struct {
	SessionID SessionID
	Action    core.Action
}

func (PlayerIntentMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent by a transport when its player is gone.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
