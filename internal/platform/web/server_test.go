package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/storage"
)

type wireFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wireBoard struct {
	RedTurn    bool `json:"redTurn"`
	RedPos     int  `json:"redPos"`
	BluePos    int  `json:"bluePos"`
	NumberRows int  `json:"numberRows"`
	NumberCols int  `json:"numberCols"`
}

func newTestServer(t *testing.T, store *storage.Store) (*Server, *httptest.Server) {
	t.Helper()
	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(multiplayer.CoordinatorConfig{}, boloball.NewOnlineGame, sessions)
	coord.Start()
	t.Cleanup(coord.Stop)

	srv := NewServer(Config{GameID: "mini", EventBuffer: 64}, coord, sessions, store, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/play"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil returns the first frame of type typ, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) wireFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var f wireFrame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %s", typ)
		if f.Type == typ {
			return f
		}
	}
}

func whisper(t *testing.T, f wireFrame) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(f.Data, &s))
	return s
}

func board(t *testing.T, f wireFrame) wireBoard {
	t.Helper()
	var b wireBoard
	require.NoError(t, json.Unmarshal(f.Data, &b))
	return b
}

func send(t *testing.T, conn *websocket.Conn, typ string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Intent{Type: typ}))
}

func TestPairingAndTurnGating(t *testing.T) {
	_, ts := newTestServer(t, nil)

	red := dial(t, ts)
	assert.Equal(t, WhisperWaiting, whisper(t, readUntil(t, red, EventWhisper)))

	blue := dial(t, ts)
	assert.Equal(t, WhisperRed, whisper(t, readUntil(t, red, EventWhisper)))
	assert.Equal(t, WhisperBlue, whisper(t, readUntil(t, blue, EventWhisper)))

	initial := board(t, readUntil(t, blue, EventBoardUpdate))
	assert.Equal(t, 5, initial.NumberRows)
	assert.Equal(t, 6, initial.NumberCols)
	assert.True(t, initial.RedTurn)
	readUntil(t, red, EventBoardUpdate)

	// Blue is not to move; only red's step reaches the board.
	send(t, blue, "left")
	send(t, red, "right")

	for _, conn := range []*websocket.Conn{red, blue} {
		b := board(t, readUntil(t, conn, EventBoardUpdate))
		assert.Equal(t, 1, b.RedPos)
		assert.Equal(t, 0, b.BluePos)
		assert.True(t, b.RedTurn)
	}

	// Unknown intents are ignored without closing the socket.
	send(t, red, "jump")
	send(t, red, "left")
	b := board(t, readUntil(t, blue, EventBoardUpdate))
	assert.Equal(t, 0, b.RedPos)
}

func TestPeerDisconnectSendsPlayerDC(t *testing.T) {
	_, ts := newTestServer(t, nil)

	red := dial(t, ts)
	readUntil(t, red, EventWhisper)
	blue := dial(t, ts)
	readUntil(t, blue, EventBoardUpdate)

	require.NoError(t, red.Close())

	readUntil(t, blue, EventPlayerDC)
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	red := dial(t, ts)
	readUntil(t, red, EventWhisper)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var h healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&h))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 1, h.Lobbies)
	assert.Equal(t, 0, h.Matches)
	assert.Equal(t, 1, h.Sessions)
}

func TestMatchLookup(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.SaveMatch(storage.MatchRecord{
		MatchID:   "abc",
		GameID:    "mini",
		Mode:      "online",
		Score1:    40,
		Score2:    12,
		Winner:    storage.WinnerRed,
		EndReason: "Match completed",
		Moves:     31,
	})
	require.NoError(t, err)

	_, ts := newTestServer(t, store)

	resp, err := http.Get(ts.URL + "/matches/abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m matchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	assert.Equal(t, "mini", m.GameID)
	assert.Equal(t, 40, m.RedScore)
	assert.Equal(t, storage.WinnerRed, m.Winner)

	missing, err := http.Get(ts.URL + "/matches/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestMatchLookupWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/matches/abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestFramesFor(t *testing.T) {
	assert.Empty(t, framesFor(multiplayer.LobbyJoinedEvent{}))

	over := framesFor(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonCompleted, Winner: multiplayer.Player2, Score1: 3, Score2: 8})
	require.Len(t, over, 1)
	assert.Equal(t, EventGameOver, over[0].Type)
	assert.Equal(t, GameOver{Winner: GameOverBlue, RedPoints: 3, BluePoints: 8}, over[0].Data)

	tie := framesFor(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonCompleted, Winner: core.NoPlayer, Score1: 4, Score2: 4})
	require.Len(t, tie, 1)
	assert.Equal(t, GameOver{Winner: GameOverNone, RedPoints: 4, BluePoints: 4}, tie[0].Data)

	dc := framesFor(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonDisconnect})
	require.Len(t, dc, 1)
	assert.Equal(t, EventPlayerDC, dc[0].Type)
}

func TestFrameKeysMatchBrowserClient(t *testing.T) {
	g, err := boloball.NewOnlineGame("mini", core.RuntimeConfig{Seed: 3})
	require.NoError(t, err)

	frames := framesFor(multiplayer.SnapshotEvent{Seq: 1, Snapshot: g.Snapshot()})
	require.Len(t, frames, 1)
	assert.Equal(t, EventBoardUpdate, frames[0].Type)
	assert.ElementsMatch(t,
		[]string{"board", "redTurn", "redPoints", "bluePoints", "numberRows", "numberCols", "redPos", "bluePos", "pointValue"},
		jsonKeys(t, frames[0].Data))

	over := framesFor(multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonCompleted, Winner: multiplayer.Player1})
	require.Len(t, over, 1)
	assert.ElementsMatch(t, []string{"winner", "redPoints", "bluePoints"}, jsonKeys(t, over[0].Data))
}

func jsonKeys(t *testing.T, v any) []string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestCheckOrigin(t *testing.T) {
	s := &Server{config: Config{AllowedOrigins: []string{"https://bolo.example"}}}

	r := httptest.NewRequest(http.MethodGet, "/play", nil)
	r.Header.Set("Origin", "https://bolo.example")
	assert.True(t, s.checkOrigin(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, s.checkOrigin(r))

	open := &Server{}
	assert.True(t, open.checkOrigin(r))
}
