// Package boloball adapts the BoloBall engine to the game registry and the multiplayer layer:
// a registry.Game for hot-seat play, a multiplayer.OnlineGame for matches
// between two sessions, and tile rendering into a core.Screen.
package boloball

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/registry"
)

// Game is one BoloBall board played by red (Player1) and blue (Player2).
type Game struct {
	id      string
	title   string
	board   engine.BoardConfig
	eng     *engine.Engine
	seed    int64
	moves   int
	message string // Last announcement, shown under the board
}

// New creates a game variant that generates boards from cfg.
// The board is built on the first Reset.
func New(id, title string, cfg engine.BoardConfig) *Game {
	return &Game{id: id, title: title, board: cfg.Clamped()}
}

// NewFromEngine wraps an existing engine, e.g. one built from a fixed layout.
func NewFromEngine(id, title string, e *engine.Engine) *Game {
	return &Game{
		id:    id,
		title: title,
		board: engine.BoardConfig{Rows: e.Rows(), Cols: e.Cols(), BonusValue: e.BonusValue()}.Clamped(),
		eng:   e,
	}
}

func init() {
	for _, p := range config.Presets() {
		board, err := config.PresetBoard(p)
		if err != nil {
			continue
		}
		id, title, cfg := string(p), "BoloBall: "+p.Title(), board.EngineConfig()
		registry.Register(id, title, func() registry.Game {
			return New(id, title, cfg)
		})
	}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Configure replaces the board settings used by the next Reset.
func (g *Game) Configure(cfg engine.BoardConfig) {
	g.board = cfg.Clamped()
}

// Board returns the clamped board settings.
func (g *Game) Board() engine.BoardConfig {
	return g.board
}

// Reset generates a fresh board. A zero seed picks one from the clock.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	g.eng = engine.Generate(g.board, rand.New(rand.NewSource(g.seed))) //nolint:gosec // gameplay RNG
	g.moves = 0
	g.message = ""
}

// Seed returns the seed of the current board.
func (g *Game) Seed() int64 {
	return g.seed
}

// Moves returns the number of accepted moves and kicks.
func (g *Game) Moves() int {
	return g.moves
}

// Message returns the last announcement.
func (g *Game) Message() string {
	return g.message
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Step applies the frame's move on behalf of whoever is to move.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, a := range []core.Action{core.ActionLeft, core.ActionRight, core.ActionKick} {
		if in.Has(a) {
			return g.Apply(g.ActivePlayer(), a)
		}
	}
	return core.StepResult{State: g.State()}
}

// Apply performs a move for player. Moves from the player not to move,
// and any move once the game is over, are ignored.
func (g *Game) Apply(player core.PlayerID, a core.Action) core.StepResult {
	if g.eng == nil {
		g.Reset(core.DefaultConfig())
	}
	if player == core.NoPlayer || player != g.ActivePlayer() {
		return core.StepResult{State: g.State()}
	}

	var res core.StepResult
	switch a {
	case core.ActionLeft:
		res.Changed = g.eng.MoveLeft()
	case core.ActionRight:
		res.Changed = g.eng.MoveRight()
	case core.ActionKick:
		kick := g.eng.Kick()
		res.Changed = kick.Mobility != engine.MobilityUnknown
		res.Message = kick.Message
	}

	if res.Changed {
		g.moves++
	}
	if res.Message != "" {
		g.message = res.Message
	}
	res.State = g.State()
	return res
}

// ActivePlayer returns the player to move, or NoPlayer once the game is over.
func (g *Game) ActivePlayer() core.PlayerID {
	if g.eng == nil || g.eng.Over() {
		return core.NoPlayer
	}
	return PlayerOf(g.eng.Active())
}

// State returns the platform view of the game.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	st := core.GameState{
		Turn:     g.ActivePlayer(),
		Score1:   multiplayer.ClampScore(g.eng.Score(engine.Red)),
		Score2:   multiplayer.ClampScore(g.eng.Score(engine.Blue)),
		GameOver: g.eng.Over(),
	}
	st.Winner = g.Winner()
	return st
}

// IsGameOver reports whether the board is finished.
func (g *Game) IsGameOver() bool {
	return g.eng != nil && g.eng.Over()
}

// Winner returns the winning player, or NoPlayer on a tie or while running.
func (g *Game) Winner() core.PlayerID {
	if g.eng == nil {
		return core.NoPlayer
	}
	res, ok := g.eng.FinalResult()
	if !ok {
		return core.NoPlayer
	}
	return PlayerOf(res.Winner.Color())
}

// Score1 returns red's score.
func (g *Game) Score1() int {
	return g.State().Score1
}

// Score2 returns blue's score.
func (g *Game) Score2() int {
	return g.State().Score2
}

// PlayerOf maps a color to its seat. Red is Player1.
func PlayerOf(c engine.Color) core.PlayerID {
	switch c {
	case engine.Red:
		return core.Player1
	case engine.Blue:
		return core.Player2
	default:
		return core.NoPlayer
	}
}

// ColorOf maps a seat to its color.
func ColorOf(p core.PlayerID) engine.Color {
	switch p {
	case core.Player1:
		return engine.Red
	case core.Player2:
		return engine.Blue
	default:
		return engine.NoColor
	}
}

// NewOnlineGame builds a registered variant for a match.
// Its signature matches multiplayer.GameFactory.
func NewOnlineGame(gameID string, cfg core.RuntimeConfig) (multiplayer.OnlineGame, error) {
	g, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}
	bg, ok := g.(*Game)
	if !ok {
		return nil, fmt.Errorf("boloball: %q is not a BoloBall variant", gameID)
	}
	bg.Reset(cfg)
	return bg, nil
}

var (
	_ registry.Game           = (*Game)(nil)
	_ multiplayer.OnlineGame  = (*Game)(nil)
	_ multiplayer.GameFactory = NewOnlineGame
)
