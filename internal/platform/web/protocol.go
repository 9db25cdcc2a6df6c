package web

import (
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/storage"
)

// Server event names understood by the browser client.
const (
	EventBoardUpdate = "boardUpdate"
	EventWhisper     = "whisper"
	EventGameOver    = "gameOver"
	EventPlayerDC    = "playerDC"
)

// Whispers sent around pairing.
const (
	WhisperWaiting = "Waiting for 2nd player."
	WhisperRed     = "You are the Red Player."
	WhisperBlue    = "You are the Blue Player."
)

// Frame is one server to client message.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Intent is one client to server message: {"type":"left"|"right"|"down"}.
type Intent struct {
	Type string `json:"type"`
}

// BoardUpdate is the payload of a boardUpdate frame. Field names are the
// ones the browser client reads.
type BoardUpdate struct {
	Board      [][]engine.Cell `json:"board"`
	RedTurn    bool            `json:"redTurn"`
	RedPoints  uint64          `json:"redPoints"`
	BluePoints uint64          `json:"bluePoints"`
	NumberRows int             `json:"numberRows"`
	NumberCols int             `json:"numberCols"`
	RedPos     int             `json:"redPos"`
	BluePos    int             `json:"bluePos"`
	PointValue int             `json:"pointValue"`
}

func newBoardUpdate(s engine.Snapshot) BoardUpdate {
	return BoardUpdate{
		Board:      s.Grid,
		RedTurn:    s.Active == engine.Red,
		RedPoints:  s.RedScore,
		BluePoints: s.BlueScore,
		NumberRows: s.Rows,
		NumberCols: s.Cols,
		RedPos:     s.RedColumn,
		BluePos:    s.BlueColumn,
		PointValue: s.BonusValue,
	}
}

// Winner labels of a gameOver frame.
const (
	GameOverRed  = "Red"
	GameOverBlue = "Blue"
	GameOverNone = "None"
)

// GameOver is the payload of a gameOver frame.
type GameOver struct {
	Winner     string `json:"winner"`
	BluePoints int    `json:"bluePoints"`
	RedPoints  int    `json:"redPoints"`
}

func newGameOver(e multiplayer.MatchEndedEvent) GameOver {
	winner := GameOverNone
	switch e.Winner {
	case multiplayer.Player1:
		winner = GameOverRed
	case multiplayer.Player2:
		winner = GameOverBlue
	}
	return GameOver{Winner: winner, RedPoints: e.Score1, BluePoints: e.Score2}
}

// framesFor translates a coordinator event into zero or more frames.
func framesFor(evt multiplayer.SessionEvent) []Frame {
	switch e := evt.(type) {
	case multiplayer.WaitingForOpponentEvent:
		return []Frame{{Type: EventWhisper, Data: WhisperWaiting}}
	case multiplayer.MatchStartedEvent:
		if e.Side == multiplayer.Player2 {
			return []Frame{{Type: EventWhisper, Data: WhisperBlue}}
		}
		return []Frame{{Type: EventWhisper, Data: WhisperRed}}
	case multiplayer.SnapshotEvent:
		snap, ok := e.Snapshot.(boloball.BoardSnapshot)
		if !ok {
			return nil
		}
		return []Frame{{Type: EventBoardUpdate, Data: newBoardUpdate(snap.Snapshot)}}
	case multiplayer.NoticeEvent:
		return []Frame{{Type: EventWhisper, Data: e.Message}}
	case multiplayer.LobbyErrorEvent:
		return []Frame{{Type: EventWhisper, Data: e.Message}}
	case multiplayer.MatchEndedEvent:
		if e.Reason == multiplayer.MatchEndReasonCompleted {
			return []Frame{{Type: EventGameOver, Data: newGameOver(e)}}
		}
		return []Frame{{Type: EventPlayerDC}}
	}
	return nil
}

// matchResponse is the JSON form of a stored match.
type matchResponse struct {
	MatchID      string `json:"match_id"`
	GameID       string `json:"game_id"`
	Mode         string `json:"mode"`
	RedScore     int    `json:"red_score"`
	BlueScore    int    `json:"blue_score"`
	Winner       string `json:"winner"`
	EndReason    string `json:"end_reason"`
	Moves        int    `json:"moves"`
	DurationSecs int    `json:"duration_secs"`
	CreatedAt    string `json:"created_at"`
}

func newMatchResponse(r *storage.MatchRecord) matchResponse {
	return matchResponse{
		MatchID:      r.MatchID,
		GameID:       r.GameID,
		Mode:         r.Mode,
		RedScore:     r.Score1,
		BlueScore:    r.Score2,
		Winner:       r.Winner,
		EndReason:    r.EndReason,
		Moves:        r.Moves,
		DurationSecs: r.Duration,
		CreatedAt:    r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
