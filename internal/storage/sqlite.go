// Package storage provides SQLite-based persistence for scores and encounter logs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	RunID     string
	Score     int
	Level     int
	Won       bool
	CreatedAt time.Time
}

// Run is one play session from start to game over, win or quit.
type Run struct {
	ID         string
	GameID     string
	Score      int
	Level      int
	Won        bool
	Finished   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// EncounterRecord is one answered question.
type EncounterRecord struct {
	RunID       string
	EncounterID int
	Kind        string
	Level       int
	Question    string
	Answer      string // What the player typed, empty on forfeit
	Correct     bool
	HealthAfter int
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
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

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			won INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			finished_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			won INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS encounters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			encounter_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			level INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL DEFAULT '',
			correct INTEGER NOT NULL,
			health_after INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(run_id, encounter_id)
		);
		CREATE INDEX IF NOT EXISTS idx_encounters_run_id ON encounters(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StartRun records a new run and returns its generated ID.
func (s *Store) StartRun(gameID string) (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO runs (run_id, game_id) VALUES (?, ?)", id, gameID); err != nil {
		return "", fmt.Errorf("storage: cannot start run: %w", err)
	}
	return id, nil
}

// FinishRun closes a run and records its score.
// Finishing a run twice is an error so a score is never counted twice.
func (s *Store) FinishRun(runID string, score, level int, won bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var gameID string
	err = tx.QueryRow(
		"SELECT game_id FROM runs WHERE run_id = ? AND finished_at IS NULL",
		runID,
	).Scan(&gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage: run %s not found or already finished", runID)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot query run: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE runs SET score = ?, level = ?, won = ?, finished_at = CURRENT_TIMESTAMP WHERE run_id = ?",
		score, level, won, runID,
	); err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO scores (game_id, run_id, score, level, won) VALUES (?, ?, ?, ?, ?)",
		gameID, runID, score, level, won,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID. Returns nil if it does not exist.
func (s *Store) GetRun(runID string) (*Run, error) {
	var r Run
	var startedAt, finishedAt any
	err := s.db.QueryRow(
		`SELECT run_id, game_id, score, level, won, started_at, finished_at
		 FROM runs WHERE run_id = ?`,
		runID,
	).Scan(&r.ID, &r.GameID, &r.Score, &r.Level, &r.Won, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	r.StartedAt = parseTime(startedAt)
	r.FinishedAt = parseTime(finishedAt)
	r.Finished = finishedAt != nil
	return &r, nil
}

// SaveScore records a score without a run, for example from simulations.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, run_id, score, level, won, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.RunID, &e.Score, &e.Level, &e.Won, &createdAt); err != nil {
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

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// LogEncounter records an answered question for a run.
func (s *Store) LogEncounter(rec EncounterRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO encounters
		 (run_id, encounter_id, kind, level, question, answer, correct, health_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.EncounterID,
		rec.Kind,
		rec.Level,
		rec.Question,
		rec.Answer,
		rec.Correct,
		rec.HealthAfter,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot log encounter: %w", err)
	}
	return nil
}

// RunEncounters retrieves the encounters of a run in the order they happened.
func (s *Store) RunEncounters(runID string) ([]EncounterRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, encounter_id, kind, level, question, answer, correct, health_after, created_at
		 FROM encounters
		 WHERE run_id = ?
		 ORDER BY encounter_id ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query encounters: %w", err)
	}
	defer rows.Close()

	var records []EncounterRecord
	for rows.Next() {
		var r EncounterRecord
		var createdAt any
		if err := rows.Scan(
			&r.RunID,
			&r.EncounterID,
			&r.Kind,
			&r.Level,
			&r.Question,
			&r.Answer,
			&r.Correct,
			&r.HealthAfter,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	Wins       int
	HighScore  int
	AvgScore   float64
	Answered   int
	Correct    int
	LastPlayed time.Time
}

// Accuracy returns the share of correctly answered questions in [0, 1].
func (g *GameStats) Accuracy() float64 {
	if g.Answered == 0 {
		return 0
	}
	return float64(g.Correct) / float64(g.Answered)
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.Wins, &stats.HighScore, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(e.correct), 0)
		 FROM encounters e JOIN runs r ON r.run_id = e.run_id
		 WHERE r.game_id = ?`,
		gameID,
	).Scan(&stats.Answered, &stats.Correct)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get answer stats: %w", err)
	}

	return stats, nil
}

// parseTime converts a SQLite datetime column, handling both time.Time and string.
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
