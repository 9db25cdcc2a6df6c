package engine

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKickStraightFallToGoalLine(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		"......",
		"......",
		"......",
	)

	res := e.Kick()

	assert.True(t, res.Moved)
	assert.Equal(t, MobilityBoth, res.Mobility)
	assert.Empty(t, res.Message)
	// (rows-3)*2 = 4, times two for scoring.
	assert.Equal(t, uint64(8), e.Score(Red))
	assert.Equal(t, uint64(0), e.Score(Blue))
	assert.Equal(t, BlueBall, e.board.At(0, 0), "shared marker leaves the other ball behind")
	for row := 1; row < e.board.rows; row++ {
		assert.Equalf(t, Empty, e.board.At(row, 0), "row %d", row)
	}
	assert.Equal(t, Blue, e.Active())
	assert.False(t, e.Busy())
}

func TestKickSingleRowFallOnFullBoard(t *testing.T) {
	grid := make([][]Cell, MaxRows)
	for r := range grid {
		grid[r] = make([]Cell, MaxCols)
	}
	for c := range grid[0] {
		grid[0][c] = BothBalls
	}
	grid[2][0] = Obstacle

	e, err := NewFromLayout(grid, 10, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	res := e.Kick()

	require.True(t, res.Moved)
	assert.Equal(t, uint64(2), e.Score(Red))
	assert.Equal(t, RedBall, e.board.At(1, 0))
	assert.Equal(t, BlueBall, e.board.At(0, 0))
}

func TestBonusBeneathBall(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"r.....",
		"$.....",
		"#.....",
		"......",
	)

	moved := e.resolve(1, 0)

	require.True(t, moved)
	assert.Equal(t, uint64(12), e.Score(Red), "bonus 10 plus one row fallen")
	assert.Equal(t, 0, e.board.Count(Bonus))
	assert.Equal(t, RedBall, e.board.At(2, 0))
	assert.Equal(t, Empty, e.board.At(1, 0))
}

func TestKickCollectsBonusOnTheWay(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		"$.....",
		"......",
		"......",
	)

	e.Kick()

	assert.Equal(t, uint64(18), e.Score(Red))
	assert.Equal(t, 0, e.board.Count(Bonus))
}

func TestRedirects(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantScore uint64
		wantArrow Cell
		wantBall  Coord
	}{
		{
			name: "right arrow shifts and flips",
			lines: []string{
				"BBBBBB",
				"......",
				">.....",
				"......",
				"......",
			},
			wantScore: 8,
			wantArrow: RedirectLeft,
			wantBall:  Coord{-1, -1},
		},
		{
			name: "arrow into the wall stops the ball",
			lines: []string{
				"BBBBBB",
				"......",
				"<.....",
				"......",
				"......",
			},
			wantScore: 2,
			wantArrow: RedirectLeft,
			wantBall:  Coord{1, 0},
		},
		{
			name: "arrow into an obstacle stops the ball",
			lines: []string{
				"BBBBBB",
				".#....",
				">.....",
				"......",
				"......",
			},
			wantScore: 2,
			wantArrow: RedirectRight,
			wantBall:  Coord{1, 0},
		},
		{
			name: "bonus in the destination is collected",
			lines: []string{
				"BBBBBB",
				".$....",
				">.....",
				"......",
				"......",
			},
			wantScore: 18,
			wantArrow: RedirectLeft,
			wantBall:  Coord{-1, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEngine(t, 1, tt.lines...)

			res := e.Kick()

			require.True(t, res.Moved)
			assert.Equal(t, tt.wantScore, e.Score(Red))
			assert.Equal(t, tt.wantArrow, e.board.At(2, 0))
			if tt.wantBall.Row >= 0 {
				assert.Equal(t, RedBall, e.board.At(tt.wantBall.Row, tt.wantBall.Col))
			} else {
				assert.Equal(t, 0, e.board.Count(RedBall), "ball left the board")
			}
		})
	}
}

func TestRedirectChainHopsSeveralColumns(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		">>>#..",
		"......",
		"......",
	)

	e.Kick()

	// Three hops right, then the obstacle at (2,3) holds it.
	assert.Equal(t, RedBall, e.board.At(1, 3))
	assert.Equal(t, uint64(2), e.Score(Red))
	for col := 0; col < 3; col++ {
		assert.Equalf(t, RedirectLeft, e.board.At(2, col), "arrow %d flipped", col)
	}
}

func TestPortalBeneathWithEmptyExitKeepsPortals(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := mustEngine(t, seed,
			"BBBBBB",
			"......",
			"O..O..",
			"......",
			"......",
		)

		res := e.Kick()

		require.True(t, res.Moved)
		assert.Equal(t, uint64(8), e.Score(Red), "seed %d", seed)
		assert.Len(t, e.Portals(), 2, "seed %d", seed)
		assert.Equal(t, 2, e.board.Count(Portal), "seed %d", seed)
		assert.Equal(t, 0, e.board.Count(RedBall), "seed %d", seed)
	}
}

func TestPortalWithBlockedExitIsConsumed(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := mustEngine(t, seed,
			"BBBBBB",
			"......",
			"O..O.O",
			"######",
			"......",
		)

		e.Kick()

		assert.Len(t, e.Portals(), 2, "seed %d", seed)
		assert.Equal(t, 2, e.board.Count(Portal), "seed %d", seed)
		assert.Equal(t, 1, e.board.Count(RedBall), "seed %d", seed)
		assert.Equal(t, uint64(4), e.Score(Red), "seed %d", seed)
	}
}

func TestPortalConsumedLeavesNoLonePortal(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := mustEngine(t, seed,
			"BBBBBB",
			"......",
			"O..O..",
			"######",
			"......",
		)

		e.Kick()

		assert.Empty(t, e.Portals(), "seed %d", seed)
		assert.Equal(t, 0, e.board.Count(Portal), "seed %d", seed)
		assert.Equal(t, 1, e.board.Count(RedBall), "seed %d", seed)
	}
}

func TestRedirectIntoPortalTeleports(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := mustEngine(t, seed,
			"BBBBBB",
			".O....",
			">.....",
			"....O.",
			"......",
		)

		e.Kick()

		assert.Equal(t, RedirectLeft, e.board.At(2, 0), "seed %d", seed)
		assert.Equal(t, Empty, e.board.At(1, 0), "seed %d", seed)
		assert.Len(t, e.Portals(), 2, "seed %d", seed)
		assert.Equal(t, uint64(8), e.Score(Red), "seed %d", seed)
	}
}

func TestKickWhileBusyIsNoop(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"......",
		"......",
		"......",
		"......",
	)
	before := e.Snapshot()
	e.busy = true

	res := e.Kick()

	assert.False(t, res.Moved)
	assert.Equal(t, MobilityUnknown, res.Mobility)
	assert.Empty(t, res.Message)
	assert.False(t, e.MoveRight())
	e.busy = false
	assert.Equal(t, before, e.Snapshot())
}

func TestKickWithoutEligibleBall(t *testing.T) {
	e := mustEngine(t, 1,
		"BBBBBB",
		"rrrbbb",
		"......",
		"......",
		"......",
	)
	before := e.Snapshot()

	res := e.Kick()

	assert.Equal(t, KickResult{Mobility: MobilityUnknown}, res)
	assert.False(t, e.Busy())
	assert.Equal(t, before, e.Snapshot())
}

func TestKickRejectsOpponentBall(t *testing.T) {
	e := mustEngine(t, 1,
		"bBBBBB",
		"......",
		"......",
		"......",
		"......",
	)

	res := e.Kick()

	assert.False(t, res.Moved)
	assert.Equal(t, Red, e.Active())
}

// The codes are asymmetric on purpose: 2 means blue is stuck (red only),
// 1 means red is stuck (blue only). Browser clients depend on the numbers.
func TestMobilityCodeNumbering(t *testing.T) {
	assert.Equal(t, Mobility(0), MobilityNeither)
	assert.Equal(t, Mobility(1), MobilityBlueOnly)
	assert.Equal(t, Mobility(2), MobilityRedOnly)
	assert.Equal(t, Mobility(3), MobilityBoth)
	assert.Equal(t, MsgBlueStuck, Mobility(2).Message())
	assert.Equal(t, MsgRedStuck, Mobility(1).Message())
}

func TestMobilityCodes(t *testing.T) {
	// Code 2 (MobilityRedOnly) announces blue stuck; code 1 announces red stuck.
	tests := []struct {
		name       string
		lines      []string
		wantCode   Mobility
		wantMsg    string
		wantActive Color
		wantOver   bool
	}{
		{
			name: "blue has no ball left",
			lines: []string{
				"rrrrrr",
				"......",
				"......",
				"......",
				"......",
			},
			wantCode:   MobilityRedOnly,
			wantMsg:    "Blue cannot move. They get no more moves.",
			wantActive: Red,
		},
		{
			name: "red kicks its last ball",
			lines: []string{
				"rbbbbb",
				"......",
				"......",
				"......",
				"......",
			},
			wantCode:   MobilityBlueOnly,
			wantMsg:    "Red cannot move. They get no more moves.",
			wantActive: Blue,
		},
		{
			name: "nobody can move",
			lines: []string{
				"r.....",
				"......",
				"......",
				"......",
				"......",
			},
			wantCode:   MobilityNeither,
			wantMsg:    "Neither player can move. Removing gray blocks.",
			wantActive: Red,
			wantOver:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEngine(t, 1, tt.lines...)

			res := e.Kick()

			require.True(t, res.Moved)
			assert.Equal(t, tt.wantCode, res.Mobility)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, tt.wantActive, e.Active())
			assert.Equal(t, tt.wantOver, e.Over())
		})
	}
}

func TestMobilityIsSticky(t *testing.T) {
	e := mustEngine(t, 1,
		"rrrrrr",
		"......",
		"......",
		"......",
		"......",
	)
	e.Kick()
	require.False(t, e.blue.Mobile)

	// Hand blue a ball; the flag must not come back.
	e.board.Set(0, 5, BothBalls)
	moveTo(e, 1)
	res := e.Kick()

	assert.Equal(t, MobilityRedOnly, res.Mobility)
	assert.False(t, e.blue.Mobile)
}

func TestUnstickClearsGraysAndDropsBalls(t *testing.T) {
	e := mustEngine(t, 1,
		"r.....",
		"......",
		".b...#",
		".#....",
		"......",
	)

	res := e.Kick()

	require.Equal(t, MobilityNeither, res.Mobility)
	assert.True(t, e.Over())
	assert.Equal(t, 0, e.board.Count(Obstacle))
	assert.Equal(t, 0, e.board.Count(BlueBall))
	assert.Equal(t, uint64(8), e.Score(Red))
	assert.Equal(t, uint64(4), e.Score(Blue))

	got, ok := e.FinalResult()
	require.True(t, ok)
	assert.Equal(t, Result{Winner: RedWins, RedScore: 8, BlueScore: 4}, got)

	assert.Equal(t, MobilityUnknown, e.Kick().Mobility)
	assert.False(t, e.MoveRight())
}

func TestFinalResultBeforeGameOver(t *testing.T) {
	e := Generate(DefaultBoardConfig(), rand.New(rand.NewSource(1)))
	_, ok := e.FinalResult()
	assert.False(t, ok)
}

func TestFinalResultWinner(t *testing.T) {
	tests := []struct {
		red, blue uint64
		want      Winner
	}{
		{10, 4, RedWins},
		{4, 10, BlueWins},
		{6, 6, Tie},
		{0, 0, Tie},
	}
	for _, tt := range tests {
		e := mustEngine(t, 1, "BBBBBB", "......", "......", "......", "......")
		e.over = true
		e.scores.Set(Red, tt.red)
		e.scores.Set(Blue, tt.blue)

		got, ok := e.FinalResult()

		require.True(t, ok)
		assert.Equal(t, tt.want, got.Winner, "red=%d blue=%d", tt.red, tt.blue)
	}
}

func TestMovesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := Generate(BoardConfig{Rows: 5, Cols: 6, BonusValue: 10}, rand.New(rand.NewSource(3)))

	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			e.MoveLeft()
		} else {
			e.MoveRight()
		}
		col := e.Player(e.Active()).Column
		require.GreaterOrEqual(t, col, 0)
		require.Less(t, col, e.Cols())
		if i%50 == 0 {
			e.active = e.active.Other()
		}
	}
}

func TestBoundaryNoopsLeaveSnapshotUnchanged(t *testing.T) {
	e := Generate(DefaultBoardConfig(), rand.New(rand.NewSource(5)))

	before := e.Snapshot()
	assert.False(t, e.MoveLeft())
	assert.False(t, e.MoveLeft())
	assert.Equal(t, before, e.Snapshot())

	moveTo(e, e.Cols()-1)
	atEdge := e.Snapshot()
	assert.False(t, e.MoveRight())
	assert.False(t, e.MoveRight())
	assert.Equal(t, atEdge, e.Snapshot())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	e := mustEngine(t, 1, "BBBBBB", "......", "......", "......", "......")
	s := e.Snapshot()

	s.Grid[0][0] = Obstacle
	s.RedScore = 99

	assert.Equal(t, BothBalls, e.board.At(0, 0))
	assert.Equal(t, uint64(0), e.Score(Red))
}

func TestSnapshotJSONUsesNumericCells(t *testing.T) {
	e := mustEngine(t, 1, "BBBBBB", "......", "O....O", "......", "......")

	data, err := json.Marshal(e.Snapshot())
	require.NoError(t, err)

	var decoded struct {
		Board  [][]int `json:"board"`
		Active string  `json:"active"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []int{3, 3, 3, 3, 3, 3}, decoded.Board[0])
	assert.Equal(t, []int{8, 0, 0, 0, 0, 8}, decoded.Board[2])
	assert.Equal(t, "red", decoded.Active)
}

func TestFullGamesTerminate(t *testing.T) {
	configs := []BoardConfig{
		DefaultBoardConfig(),
		{Rows: 5, Cols: 6, BonusValue: 10, Wormholes: true},
		{Rows: 18, Cols: 27, GrayFrequency: 2, ArrowFrequency: 3, BonusFrequency: 1, BonusValue: 99, Wormholes: true},
		{Rows: 12, Cols: 12, GrayFrequency: -4, ArrowFrequency: -6, BonusFrequency: -2, BonusValue: 1},
	}

	for ci, cfg := range configs {
		for seed := int64(1); seed <= 10; seed++ {
			e := Generate(cfg, rand.New(rand.NewSource(seed)))
			kicks := 0
			for !e.Over() {
				col := kickableColumn(e)
				require.NotEqualf(t, -1, col, "config %d seed %d: active player has no kick", ci, seed)
				moveTo(e, col)
				res := e.Kick()
				require.Truef(t, res.Moved, "config %d seed %d", ci, seed)
				require.NotEqual(t, 1, len(e.Portals()))
				kicks++
				require.LessOrEqualf(t, kicks, 2*e.Cols(), "config %d seed %d: too many kicks", ci, seed)
			}
			_, ok := e.FinalResult()
			assert.True(t, ok)
			assert.False(t, e.Busy())
		}
	}
}
