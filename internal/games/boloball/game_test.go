package boloball

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
	"github.com/vovakirdan/boloball/internal/registry"
)

// fixedGame builds a 5x6 board where every column is open.
func fixedGame(t *testing.T) *Game {
	t.Helper()
	grid := [][]engine.Cell{
		{engine.BothBalls, engine.BothBalls, engine.BothBalls, engine.BothBalls, engine.BothBalls, engine.BothBalls},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0},
	}
	e, err := engine.NewFromLayout(grid, engine.DefaultBonusValue, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewFromLayout() error = %v", err)
	}
	return NewFromEngine("fixed", "Fixed", e)
}

func TestPresetsRegistered(t *testing.T) {
	for _, id := range []string{"standard", "mini", "calm", "chaos", "nowormholes"} {
		if !registry.Exists(id) {
			t.Errorf("variant %q not registered", id)
		}
	}

	g, err := registry.Create("mini")
	if err != nil {
		t.Fatalf("Create(mini) error = %v", err)
	}
	g.Reset(core.RuntimeConfig{Seed: 3})

	bg := g.(*Game)
	if bg.Engine().Rows() != 5 || bg.Engine().Cols() != 6 {
		t.Errorf("mini board = %dx%d, expected 5x6", bg.Engine().Rows(), bg.Engine().Cols())
	}
	if bg.Seed() != 3 {
		t.Errorf("Seed() = %d, expected 3", bg.Seed())
	}
}

func TestApplyTurnGating(t *testing.T) {
	g := fixedGame(t)

	if res := g.Apply(core.Player2, core.ActionRight); res.Changed {
		t.Error("blue moved on red's turn")
	}
	if res := g.Apply(core.Player1, core.ActionRight); !res.Changed {
		t.Error("red could not move right")
	}
	if g.ActivePlayer() != core.Player1 {
		t.Errorf("moving passed the turn to %v", g.ActivePlayer())
	}

	res := g.Apply(core.Player1, core.ActionKick)
	if !res.Changed {
		t.Fatal("red kick rejected")
	}
	if res.State.Turn != core.Player2 {
		t.Errorf("Turn = %v after kick, expected %v", res.State.Turn, core.Player2)
	}
	// Straight fall on a 5-row board is worth 8.
	if res.State.Score1 != 8 {
		t.Errorf("Score1 = %d, expected 8", res.State.Score1)
	}
	if g.Moves() != 2 {
		t.Errorf("Moves() = %d, expected 2", g.Moves())
	}
}

func TestStepUsesActivePlayer(t *testing.T) {
	g := fixedGame(t)

	g.Step(core.FrameOf(core.ActionKick))
	if g.ActivePlayer() != core.Player2 {
		t.Fatalf("ActivePlayer() = %v, expected %v", g.ActivePlayer(), core.Player2)
	}
	res := g.Step(core.FrameOf(core.ActionRight))
	if !res.Changed {
		t.Error("blue could not move via Step")
	}
	if g.Engine().Player(engine.Blue).Column != 1 {
		t.Errorf("blue column = %d, expected 1", g.Engine().Player(engine.Blue).Column)
	}

	if res := g.Step(core.NewInputFrame()); res.Changed {
		t.Error("empty frame changed state")
	}
}

func TestPlayUntilOver(t *testing.T) {
	g := New("t", "T", engine.BoardConfig{Rows: 6, Cols: 7, GrayFrequency: 0, ArrowFrequency: 0, BonusFrequency: 0, BonusValue: 10, Wormholes: true})
	g.Reset(core.RuntimeConfig{Seed: 42})

	rng := rand.New(rand.NewSource(7))
	moves := []core.Action{core.ActionLeft, core.ActionRight, core.ActionKick, core.ActionKick}
	for i := 0; i < 5000 && !g.IsGameOver(); i++ {
		g.Apply(g.ActivePlayer(), moves[rng.Intn(len(moves))])
	}
	if !g.IsGameOver() {
		t.Fatal("game did not finish")
	}

	st := g.State()
	if !st.GameOver || st.Turn != core.NoPlayer {
		t.Errorf("State() = %+v after game over", st)
	}
	switch {
	case st.Score1 > st.Score2 && st.Winner != core.Player1,
		st.Score2 > st.Score1 && st.Winner != core.Player2,
		st.Score1 == st.Score2 && st.Winner != core.NoPlayer:
		t.Errorf("Winner = %v for %d-%d", st.Winner, st.Score1, st.Score2)
	}
	if res := g.Apply(core.Player1, core.ActionKick); res.Changed {
		t.Error("move accepted after game over")
	}
}

func TestNewOnlineGame(t *testing.T) {
	og, err := NewOnlineGame("calm", core.RuntimeConfig{Seed: 9})
	if err != nil {
		t.Fatalf("NewOnlineGame() error = %v", err)
	}
	if og.ActivePlayer() != core.Player1 {
		t.Errorf("ActivePlayer() = %v, expected %v", og.ActivePlayer(), core.Player1)
	}
	snap, ok := og.Snapshot().(BoardSnapshot)
	if !ok {
		t.Fatalf("Snapshot() type = %T", og.Snapshot())
	}
	if snap.Rows != 12 || snap.Cols != 15 {
		t.Errorf("snapshot board = %dx%d, expected 12x15", snap.Rows, snap.Cols)
	}

	if _, err := NewOnlineGame("nope", core.RuntimeConfig{}); err == nil {
		t.Error("NewOnlineGame(unknown) expected error")
	}
}

func TestColorSeatMapping(t *testing.T) {
	tests := []struct {
		color  engine.Color
		player core.PlayerID
	}{
		{engine.Red, core.Player1},
		{engine.Blue, core.Player2},
		{engine.NoColor, core.NoPlayer},
	}
	for _, tt := range tests {
		if got := PlayerOf(tt.color); got != tt.player {
			t.Errorf("PlayerOf(%v) = %v, expected %v", tt.color, got, tt.player)
		}
		if got := ColorOf(tt.player); got != tt.color {
			t.Errorf("ColorOf(%v) = %v, expected %v", tt.player, got, tt.color)
		}
	}
}

func TestRenderBoard(t *testing.T) {
	g := fixedGame(t)
	scr := core.NewScreen(40, 12)
	g.Render(scr)

	out := scr.String()
	for _, want := range []string{"RED 0", "0 BLUE", "Red to move", string(GlyphBoth), string(GlyphCursor)} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	g.Apply(core.Player1, core.ActionKick)
	scr.Clear()
	g.Render(scr)
	out = scr.String()
	if !strings.Contains(out, "Blue to move") {
		t.Errorf("render missing turn change:\n%s", out)
	}
	if !strings.Contains(out, string(GlyphBall)) {
		t.Errorf("render missing blue marker left in the kicked column:\n%s", out)
	}
}

func TestRenderTooSmall(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		expected      string
	}{
		{"narrow", 10, 5, "Too small"},
		{"short", 40, 3, "Window too small"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := fixedGame(t)
			scr := core.NewScreen(tt.width, tt.height)
			g.Render(scr)
			out := scr.String()
			if !strings.Contains(out, tt.expected) {
				t.Errorf("expected %q:\n%s", tt.expected, out)
			}
			if !strings.Contains(out, "need ") {
				t.Errorf("expected required size:\n%s", out)
			}
		})
	}
}

func TestTileFor(t *testing.T) {
	tests := []struct {
		cell engine.Cell
		row  int
		want rune
	}{
		{engine.Empty, 0, GlyphUsed},
		{engine.Empty, 3, ' '},
		{engine.RedBall, 2, GlyphBall},
		{engine.BothBalls, 0, GlyphBoth},
		{engine.Obstacle, 2, GlyphObstacle},
		{engine.RedirectLeft, 2, GlyphLeft},
		{engine.RedirectRight, 2, GlyphRight},
		{engine.Bonus, 2, GlyphBonus},
		{engine.Portal, 2, GlyphPortal},
	}
	for _, tt := range tests {
		if got := TileFor(tt.cell, tt.row).Glyph; got != tt.want {
			t.Errorf("TileFor(%v, %d) = %q, expected %q", tt.cell, tt.row, got, tt.want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		snap BoardSnapshot
		want string
	}{
		{"red turn", BoardSnapshot{Snapshot: engine.Snapshot{Active: engine.Red}}, "Red to move"},
		{"blue turn", BoardSnapshot{Snapshot: engine.Snapshot{Active: engine.Blue}}, "Blue to move"},
		{"message", BoardSnapshot{Snapshot: engine.Snapshot{Active: engine.Red}, Message: engine.MsgBlueStuck}, engine.MsgBlueStuck},
		{"red wins", BoardSnapshot{Snapshot: engine.Snapshot{Over: true, RedScore: 12, BlueScore: 8}}, "Red wins 12 to 8"},
		{"blue wins", BoardSnapshot{Snapshot: engine.Snapshot{Over: true, RedScore: 2, BlueScore: 8}}, "Blue wins 8 to 2"},
		{"tie", BoardSnapshot{Snapshot: engine.Snapshot{Over: true, RedScore: 4, BlueScore: 4}}, "Tie at 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := StatusLine(tt.snap); got != tt.want {
				t.Errorf("StatusLine() = %q, expected %q", got, tt.want)
			}
		})
	}
}
