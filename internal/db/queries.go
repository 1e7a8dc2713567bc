package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Position is a remembered resting index for one deck
type Position struct {
	ID           string
	DeckPath     string
	RestingIndex int
	SlideCount   int
	UpdatedAt    int64
}

// ErrNoPosition is returned when a deck has no remembered position
var ErrNoPosition = errors.New("no remembered position")

// UpsertPosition inserts or replaces the position for p.DeckPath. The row
// keeps its original id when it already exists.
func UpsertPosition(ctx context.Context, db *sql.DB, p Position) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO positions (id, deck_path, resting_index, slide_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(deck_path) DO UPDATE SET
		  resting_index = excluded.resting_index,
		  slide_count   = excluded.slide_count,
		  updated_at    = excluded.updated_at`,
		p.ID, p.DeckPath, p.RestingIndex, p.SlideCount, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

// GetPosition returns the position for deckPath or ErrNoPosition
func GetPosition(ctx context.Context, db *sql.DB, deckPath string) (*Position, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, deck_path, resting_index, slide_count, updated_at
		FROM positions WHERE deck_path = ?`, deckPath)

	var p Position
	if err := row.Scan(&p.ID, &p.DeckPath, &p.RestingIndex, &p.SlideCount, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoPosition
		}
		return nil, fmt.Errorf("failed to load position: %w", err)
	}
	return &p, nil
}

// ListPositions returns all positions, most recently updated first
func ListPositions(ctx context.Context, db *sql.DB) ([]Position, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, deck_path, resting_index, slide_count, updated_at
		FROM positions ORDER BY updated_at DESC, deck_path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.DeckPath, &p.RestingIndex, &p.SlideCount, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// DeletePosition forgets deckPath. It reports whether a row was removed.
func DeletePosition(ctx context.Context, db *sql.DB, deckPath string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM positions WHERE deck_path = ?`, deckPath)
	if err != nil {
		return false, fmt.Errorf("failed to delete position: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete position: %w", err)
	}
	return n > 0, nil
}
