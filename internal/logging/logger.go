package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gridadventure/internal/game"
)

type CompletionLog struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Location  string    `json:"location"`
	UserInput string    `json:"user_input"`
	Response  string    `json:"response"`
	Metadata  string    `json:"metadata"`
}

type CompletionMetadata struct {
	Model        string        `json:"model"`
	Temperature  float64       `json:"temperature"`
	MaxTokens    int64         `json:"max_tokens"`
	ResponseTime time.Duration `json:"response_time_ms"`
	Error        *string       `json:"error,omitempty"`
}

// CompletionLogger keeps a SQLite record of every narrator call for later
// review.
type CompletionLogger struct {
	db *sql.DB
}

func NewCompletionLogger(path string) (*CompletionLogger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := &CompletionLogger{db: db}
	if err := logger.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return logger, nil
}

func (cl *CompletionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		location TEXT NOT NULL,
		user_input TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_session ON completions(session_id);
	`

	_, err := cl.db.Exec(schema)
	return err
}

func (cl *CompletionLogger) RecordTurn(ctx context.Context, rec game.TurnRecord) error {
	metadata := CompletionMetadata{
		Model:        rec.Settings.Model,
		Temperature:  rec.Settings.Temperature,
		MaxTokens:    rec.Settings.MaxTokens,
		ResponseTime: rec.Duration,
	}
	if rec.Err != nil {
		msg := rec.Err.Error()
		metadata.Error = &msg
	}

	metadataJson, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = cl.db.ExecContext(ctx, `
		INSERT INTO completions (session_id, x, y, location, user_input, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.SessionID, rec.Position.X, rec.Position.Y, rec.Location, rec.Input, rec.Reply, string(metadataJson))

	return err
}

func (cl *CompletionLogger) GetRecentCompletions(limit int) ([]CompletionLog, error) {
	rows, err := cl.db.Query(`
		SELECT id, timestamp, session_id, x, y, location, user_input, response, metadata
		FROM completions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []CompletionLog
	for rows.Next() {
		var c CompletionLog
		err := rows.Scan(&c.ID, &c.Timestamp, &c.SessionID, &c.X, &c.Y,
			&c.Location, &c.UserInput, &c.Response, &c.Metadata)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func (cl *CompletionLogger) Close() error {
	return cl.db.Close()
}
