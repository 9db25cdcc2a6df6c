package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatorConfigs = []BoardConfig{
	DefaultBoardConfig(),
	{Rows: 5, Cols: 6, BonusValue: 10, Wormholes: true},
	{Rows: 18, Cols: 27, GrayFrequency: 2, ArrowFrequency: 3, BonusFrequency: 1, BonusValue: 10, Wormholes: true},
	{Rows: 10, Cols: 8, GrayFrequency: -4, ArrowFrequency: -6, BonusFrequency: -2, BonusValue: 10, Wormholes: true},
	{Rows: 100, Cols: -3, GrayFrequency: 7, ArrowFrequency: 7, BonusFrequency: 7, BonusValue: 0, Wormholes: true},
}

func TestGenerateLayoutInvariants(t *testing.T) {
	for ci, cfg := range generatorConfigs {
		want := cfg.Clamped()
		for seed := int64(1); seed <= 50; seed++ {
			e := Generate(cfg, rand.New(rand.NewSource(seed)))
			b := e.board

			require.Equal(t, want.Rows, b.Rows())
			require.Equal(t, want.Cols, b.Cols())
			for col := 0; col < b.Cols(); col++ {
				require.Equalf(t, BothBalls, b.At(0, col), "config %d seed %d: row 0 col %d", ci, seed, col)
				require.Equalf(t, Empty, b.At(1, col), "config %d seed %d: row 1 col %d", ci, seed, col)
				require.Equalf(t, Empty, b.At(b.Rows()-1, col), "config %d seed %d: last row col %d", ci, seed, col)
			}
			for row := 2; row < b.Rows()-1; row++ {
				for col := 0; col < b.Cols(); col++ {
					require.Falsef(t, b.At(row, col).IsBall(), "config %d seed %d: ball at (%d,%d)", ci, seed, row, col)
				}
			}

			portals := e.Portals()
			require.NotEqualf(t, 1, len(portals), "config %d seed %d: lone portal", ci, seed)
			require.Equal(t, len(portals), b.Count(Portal))
			for _, p := range portals {
				require.Equal(t, Portal, b.At(p.Row, p.Col))
				require.GreaterOrEqual(t, p.Row, 2)
				require.LessOrEqual(t, p.Row, b.Rows()-2)
			}

			assert.Equal(t, Red, e.Active())
			assert.Equal(t, PlayerState{Column: 0, Mobile: true}, e.Player(Red))
			assert.Equal(t, PlayerState{Column: 0, Mobile: true}, e.Player(Blue))
			assert.Equal(t, want.BonusValue, e.BonusValue())
		}
	}
}

func TestGenerateDisabledKinds(t *testing.T) {
	cfg := BoardConfig{Rows: 18, Cols: 27, GrayFrequency: -4, ArrowFrequency: -6, BonusFrequency: -2, BonusValue: 10}
	for seed := int64(1); seed <= 20; seed++ {
		e := Generate(cfg, rand.New(rand.NewSource(seed)))
		for _, kind := range []Cell{Obstacle, RedirectLeft, RedirectRight, Bonus, Portal} {
			assert.Equalf(t, 0, e.board.Count(kind), "seed %d: %s", seed, kind)
		}
	}
}

func TestGenerateArrowsPerRow(t *testing.T) {
	// Arrow frequency 0 puts three to six arrows on every interior row.
	cfg := BoardConfig{Rows: 18, Cols: 27, GrayFrequency: -4, ArrowFrequency: 0, BonusFrequency: -2, BonusValue: 10}
	e := Generate(cfg, rand.New(rand.NewSource(11)))
	for row := 2; row <= e.Rows()-2; row++ {
		n := 0
		for col := 0; col < e.Cols(); col++ {
			if e.board.At(row, col).IsRedirect() {
				n++
			}
		}
		assert.GreaterOrEqualf(t, n, 3, "row %d", row)
		assert.LessOrEqualf(t, n, 6, "row %d", row)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := BoardConfig{Rows: 18, Cols: 27, GrayFrequency: 2, ArrowFrequency: 3, BonusFrequency: 1, BonusValue: 10, Wormholes: true}
	a := Generate(cfg, rand.New(rand.NewSource(99)))
	b := Generate(cfg, rand.New(rand.NewSource(99)))
	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, a.Portals(), b.Portals())
}

func TestPairPortalsRemovesLoneWhenNoRoom(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		"######",
		"######",
		"......",
	)
	// No interior cell is free for a partner.
	e.board.Set(2, 0, Portal)
	e.portals.add(Coord{Row: 2, Col: 0})

	e.pairPortals()

	assert.Empty(t, e.Portals())
	assert.Equal(t, 0, e.board.Count(Portal))
}

func TestPairPortalsPlacesPartner(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		"......",
		"......",
		"......",
	)
	e.board.Set(2, 0, Portal)
	e.portals.add(Coord{Row: 2, Col: 0})

	e.pairPortals()

	require.Len(t, e.Portals(), 2)
	assert.Equal(t, 2, e.board.Count(Portal))
}
