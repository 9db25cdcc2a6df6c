package multiplayer

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/boloball/internal/core"
)

// Lobby is a room waiting for its second player.
type Lobby struct {
	Code      string
	GameID    string
	Host      SessionHandle
	Joiner    SessionHandle
	Quick     bool // Opened by quick match; paired automatically and never expires
	CreatedAt time.Time
}

// CoordinatorConfig tunes lobby expiry.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // age at which an unjoined private room is closed
	CleanupPeriod time.Duration // interval between expiry sweeps
	Logger        *log.Logger   // nil discards
}

// DefaultCoordinatorConfig returns a two minute room timeout swept every 30s.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// GameFactory builds the game for a new match.
type GameFactory func(gameID string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches. storage.Store implements it.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is one finished online match.
type MatchResultData struct {
	MatchID        string
	GameID         string
	Mode           MatchMode
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	Winner         PlayerID // NoPlayer on a tie
	EndReason      string
	Moves          int
	DurationSecs   int
}

// Coordinator owns rooms, the quick-match queue and running matches.
// Requests arrive through Send and are handled on one goroutine.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match
	quick   map[string][]string      // gameID -> waiting quick lobby codes, oldest first

	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator builds a stopped coordinator; call Start.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = DefaultCoordinatorConfig().CleanupPeriod
	}
	if cfg.LobbyTimeout <= 0 {
		cfg.LobbyTimeout = DefaultCoordinatorConfig().LobbyTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	c := &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		quick:        make(map[string][]string),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
	return c
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// SetResultSaver installs where finished matches are recorded.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start runs the message loop and the expiry sweeper.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator and every running match.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.RLock()
		defer c.mu.RUnlock()
		for _, m := range c.matches {
			m.Stop()
		}
	})
}

// Send queues msg for the coordinator loop.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages is the coordinator loop.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case QuickMatchMsg:
		c.handleQuickMatch(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerIntentMsg:
		c.handlePlayerIntent(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

// busyError reports whether the session is already waiting or playing.
// Must be called with lock held.
func (c *Coordinator) busyError(id SessionID) error {
	if _, inLobby := c.sessionLobby[id]; inLobby {
		return ErrAlreadyQueued
	}
	if _, inMatch := c.sessionMatch[id]; inMatch {
		return ErrAlreadyPlaying
	}
	return nil
}

func sendLobbyError(s SessionHandle, err error) {
	s.Send(LobbyErrorEvent{Message: err.Error(), Err: err})
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if err := c.busyError(msg.SessionID); err != nil {
		c.mu.Unlock()
		sendLobbyError(session, err)
		return
	}

	lobby := c.openLobby(session, msg.GameID, false)
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", lobby.Code, "game", msg.GameID, "host", msg.SessionID)
	session.Send(LobbyCreatedEvent{Code: lobby.Code, GameID: msg.GameID})
}

// openLobby registers a new lobby hosted by session.
// Must be called with lock held.
func (c *Coordinator) openLobby(session SessionHandle, gameID string, quick bool) *Lobby {
	lobby := &Lobby{
		Code:      c.generateUniqueCode(),
		GameID:    gameID,
		Host:      session,
		Quick:     quick,
		CreatedAt: time.Now(),
	}
	c.lobbies[lobby.Code] = lobby
	c.sessionLobby[session.ID()] = lobby.Code
	if quick {
		c.quick[gameID] = append(c.quick[gameID], lobby.Code)
	}
	return lobby
}

// removeLobby forgets a lobby and its quick-match queue entry.
// Session tracking is left to the caller. Must be called with lock held.
func (c *Coordinator) removeLobby(lobby *Lobby) {
	delete(c.lobbies, lobby.Code)
	if !lobby.Quick {
		return
	}
	queue := c.quick[lobby.GameID]
	for i, code := range queue {
		if code == lobby.Code {
			c.quick[lobby.GameID] = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}
	if len(c.quick[lobby.GameID]) == 0 {
		delete(c.quick, lobby.GameID)
	}
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.busyError(msg.SessionID); err != nil {
		sendLobbyError(session, err)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		sendLobbyError(session, ErrLobbyNotFound)
		return
	}

	if lobby.Joiner != nil {
		sendLobbyError(session, ErrLobbyFull)
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		sendLobbyError(session, ErrOwnLobby)
		return
	}

	c.pair(lobby, session)
}

func (c *Coordinator) handleQuickMatch(msg QuickMatchMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.busyError(msg.SessionID); err != nil {
		sendLobbyError(session, err)
		return
	}

	for _, code := range c.quick[msg.GameID] {
		lobby, exists := c.lobbies[code]
		if !exists || lobby.Joiner != nil || lobby.Host.ID() == msg.SessionID {
			continue
		}
		c.pair(lobby, session)
		return
	}

	lobby := c.openLobby(session, msg.GameID, true)
	c.logger.Info("waiting for opponent", "code", lobby.Code, "game", msg.GameID, "session", msg.SessionID)
	session.Send(WaitingForOpponentEvent{Code: lobby.Code, GameID: msg.GameID})
}

// pair seats joiner as blue and starts the match.
// Must be called with lock held.
func (c *Coordinator) pair(lobby *Lobby, joiner SessionHandle) {
	lobby.Joiner = joiner
	c.sessionLobby[joiner.ID()] = lobby.Code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:       lobby.Code,
		Side:       Player1,
		OpponentID: joiner.ID(),
	})
	joiner.Send(LobbyJoinedEvent{
		Code:       lobby.Code,
		Side:       Player2,
		OpponentID: lobby.Host.ID(),
	})

	c.startMatch(lobby)
}

// startMatch turns a full lobby into a running match. Lock held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()

	c.removeLobby(lobby)
	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)

	cfg := core.RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    time.Now().UnixNano(),
	}

	game, err := c.gameFactory(lobby.GameID, cfg)
	if err != nil {
		c.logger.Error("cannot create game", "game", lobby.GameID, "err", err)
		failed := LobbyErrorEvent{Message: fmt.Sprintf("Failed to create game: %v", err), Err: err}
		lobby.Host.Send(failed)
		lobby.Joiner.Send(failed)
		return
	}

	matchID := NewMatchID()
	match := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, game, lobby.Host, lobby.Joiner, c.logger)

	c.matches[matchID] = match
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID

	c.logger.Info("match started", "match", matchID, "game", lobby.GameID, "red", hostID, "blue", joinerID)

	lobby.Host.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player1,
		Code:    lobby.Code,
		GameID:  lobby.GameID,
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player2,
		Code:    lobby.Code,
		GameID:  lobby.GameID,
	})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}

	if c.resultSaver != nil {
		resultData := MatchResultData{
			MatchID:        string(matchID),
			GameID:         match.GameID(),
			Mode:           MatchModeOnline,
			Player1Session: string(match.player1Session.ID()),
			Player2Session: string(match.player2Session.ID()),
			Score1:         result.Score1,
			Score2:         result.Score2,
			Winner:         result.Winner,
			EndReason:      result.Reason.String(),
			Moves:          result.Moves,
			DurationSecs:   int(result.Duration / time.Second),
		}
		saver := c.resultSaver
		logger := c.logger
		go func() {
			if err := saver.SaveMatchResult(resultData); err != nil {
				logger.Warn("cannot save match result", "match", resultData.MatchID, "err", err)
			}
		}()
	}

	for _, sessionID := range []SessionID{match.player1Session.ID(), match.player2Session.ID()} {
		delete(c.sessionMatch, sessionID)
	}
	delete(c.matches, matchID)

	c.logger.Info("match ended", "match", matchID, "reason", result.Reason, "winner", result.Winner)

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(endEvent)
	match.player2Session.Send(endEvent)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}

	if lobby.Host.ID() != msg.SessionID {
		return
	}

	c.closeHostedLobby(lobby)
}

// closeHostedLobby removes a lobby whose host left, telling any joiner.
// Must be called with lock held.
func (c *Coordinator) closeHostedLobby(lobby *Lobby) {
	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}
	c.removeLobby(lobby)
	delete(c.sessionLobby, lobby.Host.ID())
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[strings.ToUpper(msg.Code)]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: lobby.Code})
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		c.closeHostedLobby(lobby)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handlePlayerIntent(msg PlayerIntentMsg) {
	c.mu.RLock()
	matchID, inMatch := c.sessionMatch[msg.SessionID]
	match, exists := c.matches[matchID]
	c.mu.RUnlock()

	if !inMatch || !exists {
		return
	}

	side := match.SideOf(msg.SessionID)
	if side == core.NoPlayer {
		return
	}
	match.SendIntent(side, msg.Action)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			if lobby.Host.ID() == msg.SessionID {
				c.closeHostedLobby(lobby)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, lobby := range c.lobbies {
		// Only expire hosted lobbies nobody joined
		if lobby.Quick || lobby.Joiner != nil || now.Sub(lobby.CreatedAt) <= c.config.LobbyTimeout {
			continue
		}
		lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
		delete(c.sessionLobby, lobby.Host.ID())
		c.removeLobby(lobby)
		c.logger.Debug("lobby expired", "code", lobby.Code)
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// JoinCodeLen is the length of a room code. Codes use the base32
// alphabet A-Z and 2-7.
const JoinCodeLen = 6

func generateJoinCode() string {
	return rand.Text()[:JoinCodeLen]
}

// GetLobby looks up a room by code, case-insensitively.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch looks up a running match.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// MatchOf returns the match a session is playing in.
func (c *Coordinator) MatchOf(id SessionID) (MatchID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.sessionMatch[id]
	return m, ok
}

// LobbyCount returns the number of open rooms.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
