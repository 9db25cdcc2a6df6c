package engine

import "math/rand"

// PlayerState is one color's position and mobility.
// Mobile is sticky: once false it stays false for the rest of the game.
type PlayerState struct {
	Column int  `json:"column"`
	Mobile bool `json:"mobile"`
}

// KickResult is the outcome of a kick.
// Mobility is MobilityUnknown when the kick was rejected.
type KickResult struct {
	Moved    bool
	Message  string
	Mobility Mobility
}

// Engine owns a game in progress: board, portals, scores, players and turn.
// All mutation goes through MoveLeft, MoveRight and Kick.
type Engine struct {
	board      *Board
	portals    WormholeNetwork
	scores     ScoreKeeper
	red        PlayerState
	blue       PlayerState
	bonusValue int
	active     Color
	busy       bool
	over       bool
	rng        *rand.Rand
}

func newEngine(b *Board, bonusValue int, rng *rand.Rand) *Engine {
	return &Engine{
		board:      b,
		red:        PlayerState{Mobile: true},
		blue:       PlayerState{Mobile: true},
		bonusValue: bonusValue,
		active:     Red,
		rng:        rng,
	}
}

func (e *Engine) player(c Color) *PlayerState {
	if c == Blue {
		return &e.blue
	}
	return &e.red
}

// Active returns the color to move.
func (e *Engine) Active() Color { return e.active }

// Busy reports whether a kick is being resolved.
func (e *Engine) Busy() bool { return e.busy }

// Over reports whether the game has ended.
func (e *Engine) Over() bool { return e.over }

// Rows returns the board height.
func (e *Engine) Rows() int { return e.board.rows }

// Cols returns the board width.
func (e *Engine) Cols() int { return e.board.cols }

// BonusValue returns the points a bonus cell is worth.
func (e *Engine) BonusValue() int { return e.bonusValue }

// Player returns a copy of the color's state.
func (e *Engine) Player(c Color) PlayerState { return *e.player(c) }

// Score returns the color's total.
func (e *Engine) Score(c Color) uint64 { return e.scores.Get(c) }

// Portals returns the live portal coordinates.
func (e *Engine) Portals() []Coord { return e.portals.Coords() }

// MoveLeft shifts the active player one column left.
// It reports false at the left edge, while busy, or once the game is over.
func (e *Engine) MoveLeft() bool {
	if e.busy || e.over {
		return false
	}
	p := e.player(e.active)
	if p.Column == 0 {
		return false
	}
	p.Column--
	return true
}

// MoveRight shifts the active player one column right.
func (e *Engine) MoveRight() bool {
	if e.busy || e.over {
		return false
	}
	p := e.player(e.active)
	if p.Column >= e.board.cols-1 {
		return false
	}
	p.Column++
	return true
}

// Kick drops the active player's home-row ball in their current column.
//
// The kick is rejected, with no side effects, while another kick is being
// resolved, after the game is over, or when the column holds no ball of the
// active color with an Empty cell beneath it.
//
// After resolution the mobility of both colors is re-derived. When neither
// can move, gray blocks are cleared, stranded balls fall once more and the
// game ends. Otherwise the turn passes to the opponent if the ball moved and
// the opponent can still kick.
func (e *Engine) Kick() KickResult {
	rejected := KickResult{Mobility: MobilityUnknown}
	if e.busy || e.over {
		return rejected
	}
	col := e.player(e.active).Column
	if !e.active.owns(e.board.At(0, col)) || e.board.At(1, col) != Empty {
		return rejected
	}

	e.busy = true
	defer func() { e.busy = false }()

	moved := e.resolve(0, col)
	code := e.refreshMobility()
	res := KickResult{Moved: moved, Message: code.Message(), Mobility: code}

	if code == MobilityNeither {
		e.unstick()
		e.over = true
		return res
	}
	if moved && e.player(e.active.Other()).Mobile {
		e.active = e.active.Other()
	}
	return res
}
