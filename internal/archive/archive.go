// Package archive persists normalized messages to a local SQLite file
// so repeated ingest runs build an offline copy of a conversation.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding ingested messages.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per message; the primary key makes re-ingesting a
		-- window idempotent.
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			thread_ts TEXT,
			author TEXT,
			author_id TEXT,
			text TEXT,
			subtype TEXT,
			reply_count INTEGER NOT NULL DEFAULT 0,
			edited INTEGER NOT NULL DEFAULT 0,
			ingested_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_chat_ts ON messages(chat_id, ts);
	`

	_, err := db.Exec(schema)
	return err
}

// messageKey builds the primary key for a record.
func messageKey(record normalize.MessageRecord) string {
	return record.ChatID + ":" + record.TS
}

// InsertMessages stores records, skipping any already present.
// Returns how many rows were inserted and how many were duplicates.
func (s *Store) InsertMessages(records []normalize.MessageRecord) (inserted, skipped int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO messages (
			id, chat_id, ts, thread_ts, author, author_id,
			text, subtype, reply_count, edited, ingested_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, record := range records {
		result, err := stmt.Exec(
			messageKey(record), record.ChatID, record.TS, record.ThreadTS,
			record.Author, record.AuthorID, record.Text, record.Subtype,
			record.ReplyCount, boolInt(record.Edited), now,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("inserting message %s: %w", messageKey(record), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("checking insert result: %w", err)
		}
		if affected > 0 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing: %w", err)
	}
	return inserted, skipped, nil
}

// Count returns the number of stored messages for a conversation.
func (s *Store) Count(chatID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM messages WHERE chat_id = ?", chatID).Scan(&count)
	return count, err
}

// LatestTS returns the newest stored timestamp for a conversation, or
// empty when nothing is stored. Timestamps compare numerically, not
// lexically.
func (s *Store) LatestTS(chatID string) (string, error) {
	var ts string
	err := s.db.QueryRow(`
		SELECT ts FROM messages
		WHERE chat_id = ?
		ORDER BY CAST(ts AS REAL) DESC
		LIMIT 1
	`, chatID).Scan(&ts)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ts, nil
}

// Messages returns stored records for a conversation in ascending
// timestamp order, optionally limited.
func (s *Store) Messages(chatID string, limit int) ([]normalize.MessageRecord, error) {
	query := `
		SELECT chat_id, ts, thread_ts, author, author_id,
		       text, subtype, reply_count, edited
		FROM messages
		WHERE chat_id = ?
		ORDER BY CAST(ts AS REAL) ASC
	`
	args := []interface{}{chatID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var records []normalize.MessageRecord
	for rows.Next() {
		var record normalize.MessageRecord
		var threadTS, author, authorID, text, subtype sql.NullString
		var edited int
		err := rows.Scan(
			&record.ChatID, &record.TS, &threadTS, &author, &authorID,
			&text, &subtype, &record.ReplyCount, &edited,
		)
		if err != nil {
			return nil, err
		}
		record.ThreadTS = threadTS.String
		record.Author = author.String
		record.AuthorID = authorID.String
		record.Text = text.String
		record.Subtype = subtype.String
		record.Edited = edited != 0
		record.IsThreadParent = record.ReplyCount > 0 && record.TS == record.ThreadTS
		records = append(records, record)
	}
	return records, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
