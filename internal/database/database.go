package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vincentbai/subwatch/internal/models"
	_ "modernc.org/sqlite" // CGO-free SQLite
)

type Database struct {
	db *sql.DB
}

func NewDatabase(databasePath string) (*Database, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS interactions(
	  id         INTEGER PRIMARY KEY AUTOINCREMENT,
	  post_id    TEXT    NOT NULL,
	  title      TEXT    NOT NULL,
	  content    TEXT    NOT NULL,
	  response   TEXT    NOT NULL,
	  created_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_post ON interactions(post_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) InsertInteraction(ctx context.Context, interaction models.Interaction) error {
	if err := models.ValidateInteraction(interaction); err != nil {
		return fmt.Errorf("invalid interaction: %w", err)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO interactions(post_id, title, content, response) VALUES(?,?,?,?)`,
		interaction.PostID, interaction.Title, interaction.Content, interaction.Response)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// HasInteraction reports whether the post has already been replied to.
func (d *Database) HasInteraction(ctx context.Context, postID string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions WHERE post_id = ?`, postID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count interactions: %w", err)
	}
	return count > 0, nil
}

// ListInteractions returns every stored interaction, newest first.
func (d *Database) ListInteractions(ctx context.Context) ([]models.Interaction, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT post_id, title, content, response FROM interactions ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	interactions := []models.Interaction{}
	for rows.Next() {
		var interaction models.Interaction
		if err := rows.Scan(&interaction.PostID, &interaction.Title, &interaction.Content, &interaction.Response); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interactions: %w", err)
	}
	return interactions, nil
}
