package multiplayer

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/boloball/internal/core"
)

// OnlineGame is the interface a game implements to be played by two sessions.
// It is only ever driven from the match goroutine.
type OnlineGame interface {
	// Apply performs an action on behalf of a player.
	// Actions from the player not to move are ignored (Changed is false).
	Apply(player PlayerID, a core.Action) core.StepResult

	// ActivePlayer returns the player to move.
	ActivePlayer() PlayerID

	// Snapshot returns the current game state for transmission.
	Snapshot() GameSnapshot

	// IsGameOver returns true if the game has ended.
	IsGameOver() bool

	// Winner returns the winning player, or NoPlayer on a tie or while running.
	Winner() PlayerID

	// Score1 returns Player 1's score.
	Score1() int

	// Score2 returns Player 2's score.
	Score2() int
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Winner   PlayerID
	Score1   int
	Score2   int
	Moves    int
	Duration time.Duration
}

// OnlineMatch is an active two-session game.
// The game is owned by the Run goroutine; sessions reach it through SendIntent.
type OnlineMatch struct {
	id     MatchID
	code   string
	gameID string
	game   OnlineGame
	logger *log.Logger

	player1Session SessionHandle
	player2Session SessionHandle

	intents chan playerIntent

	seq      uint64
	moves    int
	started  time.Time
	done     chan struct{} // stop signal
	doneOnce sync.Once
	exited   chan struct{} // closed when Run returns

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerIntent struct {
	player PlayerID
	action core.Action
}

// NewOnlineMatch creates a new online match. p1Session plays red.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	game OnlineGame,
	p1Session, p2Session SessionHandle,
	logger *log.Logger,
) *OnlineMatch {
	if logger == nil {
		logger = discardLogger()
	}
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		game:           game,
		logger:         logger,
		player1Session: p1Session,
		player2Session: p2Session,
		intents:        make(chan playerIntent, 64),
		done:           make(chan struct{}),
		exited:         make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the variant identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// SideOf returns the side played by a session, or NoPlayer.
func (m *OnlineMatch) SideOf(id SessionID) PlayerID {
	switch id {
	case m.player1Session.ID():
		return Player1
	case m.player2Session.ID():
		return Player2
	default:
		return core.NoPlayer
	}
}

// SendIntent queues a player's action.
// Non-blocking; intents are dropped if the queue is full.
func (m *OnlineMatch) SendIntent(player PlayerID, a core.Action) {
	select {
	case m.intents <- playerIntent{player: player, action: a}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends by completion or disconnect.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer close(m.exited)
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	m.started = time.Now()
	m.broadcastSnapshot()

	// Monitor session disconnects
	go m.monitorSessions()

	for {
		select {
		case in := <-m.intents:
			result, done := m.apply(in)
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) apply(in playerIntent) (MatchResult, bool) {
	if !in.action.IsMove() || in.player != m.game.ActivePlayer() {
		return MatchResult{}, false
	}

	res := m.game.Apply(in.player, in.action)
	if res.Changed {
		m.moves++
	}
	// Sideways moves always refresh both boards; a kick only when it moved.
	if res.Changed || in.action != core.ActionKick {
		m.broadcastSnapshot()
	}
	if res.Message != "" {
		m.broadcast(NoticeEvent{MatchID: m.id, Message: res.Message})
	}

	if m.game.IsGameOver() {
		m.logger.Info("match completed", "match", m.id, "score1", m.game.Score1(), "score2", m.game.Score2())
		return m.result(MatchEndReasonCompleted, m.game.Winner()), true
	}
	return MatchResult{}, false
}

func (m *OnlineMatch) broadcastSnapshot() {
	m.seq++
	m.broadcast(SnapshotEvent{
		MatchID:  m.id,
		Seq:      m.seq,
		Snapshot: m.game.Snapshot(),
	})
}

func (m *OnlineMatch) broadcast(evt SessionEvent) {
	m.player1Session.Send(evt)
	m.player2Session.Send(evt)
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := Player1
	if sessionID == m.player1Session.ID() {
		winner = Player2
	}
	m.logger.Info("player disconnected", "match", m.id, "session", sessionID)
	return m.result(MatchEndReasonDisconnect, winner)
}

func (m *OnlineMatch) result(reason MatchEndReason, winner PlayerID) MatchResult {
	return MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Winner:   winner,
		Score1:   m.game.Score1(),
		Score2:   m.game.Score2(),
		Moves:    m.moves,
		Duration: time.Since(m.started),
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		m.PlayerDisconnected(m.player1Session.ID())
	case <-m.player2Session.Done():
		m.PlayerDisconnected(m.player2Session.ID())
	case <-m.done:
	}
}

// Stop gracefully stops the match without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}

// Done is closed once Run has returned. Stop only asks the loop to exit.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.exited
}

// ClampScore converts an unsigned score to int, saturating at math.MaxInt.
func ClampScore(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
