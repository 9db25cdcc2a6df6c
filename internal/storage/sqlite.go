// Package storage keeps finished BoloBall matches in SQLite
// (modernc.org/sqlite, no cgo). Games in progress are never stored.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/multiplayer"
)

// Winner labels stored in match_results.winner.
const (
	WinnerRed  = "red"
	WinnerBlue = "blue"
	WinnerTie  = "tie"
)

// Store is the match history database.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished match, local or online.
type MatchRecord struct {
	ID             int64
	MatchID        string
	GameID         string // Variant id
	Mode           string // "hotseat" or "online"
	Player1Session string // Red
	Player2Session string // Blue
	Score1         int
	Score2         int
	Winner         string // WinnerRed, WinnerBlue or WinnerTie
	EndReason      string
	Moves          int
	Duration       int // Duration in seconds
	CreatedAt      time.Time
}

// ScoreEntry is a winning score on the leaderboard.
type ScoreEntry struct {
	MatchID   string
	GameID    string
	Mode      string
	Winner    string
	Score     int // Winner's score
	Opponent  int // Loser's score
	CreatedAt time.Time
}

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS match_results (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id        TEXT NOT NULL UNIQUE,
		game_id         TEXT NOT NULL,
		mode            TEXT NOT NULL,
		player1_session TEXT NOT NULL DEFAULT '',
		player2_session TEXT NOT NULL DEFAULT '',
		score1          INTEGER NOT NULL DEFAULT 0,
		score2          INTEGER NOT NULL DEFAULT 0,
		winner          TEXT NOT NULL,
		end_reason      TEXT NOT NULL,
		moves           INTEGER NOT NULL DEFAULT 0,
		duration_secs   INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_game_id ON match_results(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_player1 ON match_results(player1_session)`,
	`CREATE INDEX IF NOT EXISTS idx_match_results_player2 ON match_results(player2_session)`,
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open opens the database at dbPath, creating it and its directory if
// missing, and brings the schema up to date.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// SchemaVersion returns the number of applied migrations.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("storage: cannot read schema version: %w", err)
	}
	return v, nil
}

func (s *Store) migrate() error {
	applied, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	for i := applied; i < len(migrations); i++ {
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WinnerLabel maps a seat to its stored winner label.
func WinnerLabel(p core.PlayerID) string {
	switch p {
	case core.Player1:
		return WinnerRed
	case core.Player2:
		return WinnerBlue
	default:
		return WinnerTie
	}
}

// SaveMatch records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(r MatchRecord) (int64, error) {
	if r.Winner == "" {
		r.Winner = WinnerTie
	}
	res, err := s.db.Exec(
		`INSERT INTO match_results
		 (match_id, game_id, mode, player1_session, player2_session, score1, score2,
		  winner, end_reason, moves, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID,
		r.GameID,
		r.Mode,
		r.Player1Session,
		r.Player2Session,
		r.Score1,
		r.Score2,
		r.Winner,
		r.EndReason,
		r.Moves,
		r.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveMatchResult records an online match for the coordinator.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Mode:           data.Mode.String(),
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		Winner:         WinnerLabel(data.Winner),
		EndReason:      data.EndReason,
		Moves:          data.Moves,
		Duration:       data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

const matchColumns = `id, match_id, game_id, mode, player1_session, player2_session,
		score1, score2, winner, end_reason, moves, duration_secs, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (MatchRecord, error) {
	var r MatchRecord
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.MatchID,
		&r.GameID,
		&r.Mode,
		&r.Player1Session,
		&r.Player2Session,
		&r.Score1,
		&r.Score2,
		&r.Winner,
		&r.EndReason,
		&r.Moves,
		&r.Duration,
		&createdAt,
	)
	r.CreatedAt = parseTime(createdAt)
	return r, err
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID.
// Returns nil without error if no such match exists.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	r, err := scanMatch(s.db.QueryRow(
		`SELECT `+matchColumns+`
		 FROM match_results
		 WHERE match_id = ?`,
		matchID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &r, nil
}

// RecentMatches retrieves the most recent matches, newest first.
// An empty mode returns every mode.
func (s *Store) RecentMatches(mode string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM match_results
		 WHERE ? = '' OR mode = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// PlayerMatchHistory retrieves match history for a specific session.
func (s *Store) PlayerMatchHistory(sessionID string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM match_results
		 WHERE player1_session = ? OR player2_session = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		sessionID, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// TopScores retrieves the best winning scores for a variant.
// Ties and unfinished matches are excluded. Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT match_id, game_id, mode, winner,
		        CASE winner WHEN 'red' THEN score1 ELSE score2 END AS score,
		        CASE winner WHEN 'red' THEN score2 ELSE score1 END AS opponent,
		        created_at
		 FROM match_results
		 WHERE game_id = ? AND winner IN ('red', 'blue') AND end_reason = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, multiplayer.MatchEndReasonCompleted.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.MatchID, &e.GameID, &e.Mode, &e.Winner, &e.Score, &e.Opponent, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best winning score for a variant.
// Returns 0 if no completed match has a winner.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		`SELECT MAX(CASE winner WHEN 'red' THEN score1 ELSE score2 END)
		 FROM match_results
		 WHERE game_id = ? AND winner IN ('red', 'blue') AND end_reason = ?`,
		gameID, multiplayer.MatchEndReasonCompleted.String(),
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearMatches deletes all matches for the given variant.
func (s *Store) ClearMatches(gameID string) error {
	_, err := s.db.Exec("DELETE FROM match_results WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	GameID     string
	Matches    int
	RedWins    int
	BlueWins   int
	Ties       int
	HighScore  int
	AvgMoves   float64
	LastPlayed time.Time
}

// AllVariantStats retrieves statistics for every variant that has been played.
func (s *Store) AllVariantStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*),
		        SUM(CASE winner WHEN 'red' THEN 1 ELSE 0 END),
		        SUM(CASE winner WHEN 'blue' THEN 1 ELSE 0 END),
		        SUM(CASE winner WHEN 'tie' THEN 1 ELSE 0 END),
		        MAX(CASE winner WHEN 'red' THEN score1 WHEN 'blue' THEN score2 ELSE 0 END),
		        AVG(moves),
		        MAX(created_at)
		 FROM match_results
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get variant stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var vs VariantStats
		var lastPlayed any
		if err := rows.Scan(&vs.GameID, &vs.Matches, &vs.RedWins, &vs.BlueWins, &vs.Ties,
			&vs.HighScore, &vs.AvgMoves, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		vs.LastPlayed = parseTime(lastPlayed)
		stats[vs.GameID] = &vs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
