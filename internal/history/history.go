// Package history remembers where each deck was left so it can reopen on
// the same slide.
package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"reel/internal/db"
	"reel/internal/eventbus"
)

// Entry is one remembered deck
type Entry struct {
	ID         string
	DeckPath   string
	Index      int
	SlideCount int
	UpdatedAt  time.Time
}

// Store saves and restores resting indices
type Store struct {
	db  *sql.DB
	bus eventbus.EventBus
	now func() time.Time
}

// Open opens the history database at path
func Open(path string) (*Store, error) {
	conn, err := db.Init(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: conn, now: time.Now}, nil
}

// SetBus makes Save publish PositionSavedEvent
func (s *Store) SetBus(bus eventbus.EventBus) {
	s.bus = bus
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save remembers index for deckPath
func (s *Store) Save(ctx context.Context, deckPath string, index, slideCount int) error {
	key, err := normalize(deckPath)
	if err != nil {
		return err
	}
	if index < 0 || index >= slideCount {
		return fmt.Errorf("index %d out of range for %d slides", index, slideCount)
	}

	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}
	err = db.UpsertPosition(ctx, s.db, db.Position{
		ID:           id.String(),
		DeckPath:     key,
		RestingIndex: index,
		SlideCount:   slideCount,
		UpdatedAt:    now.Unix(),
	})
	if err != nil {
		return err
	}

	log.Printf("history: saved %s at %d", key, index)
	if s.bus != nil {
		s.bus.Publish(eventbus.PositionSavedEvent{DeckPath: key, Index: index})
	}
	return nil
}

// Load returns the remembered index for deckPath. A remembered index that
// no longer fits the deck's slideCount is discarded.
func (s *Store) Load(ctx context.Context, deckPath string, slideCount int) (int, bool, error) {
	key, err := normalize(deckPath)
	if err != nil {
		return 0, false, err
	}
	p, err := db.GetPosition(ctx, s.db, key)
	if errors.Is(err, db.ErrNoPosition) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if p.RestingIndex < 0 || p.RestingIndex >= slideCount {
		return 0, false, nil
	}
	return p.RestingIndex, true, nil
}

// List returns every remembered deck, newest first
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	positions, err := db.ListPositions(ctx, s.db)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(positions))
	for i, p := range positions {
		entries[i] = Entry{
			ID:         p.ID,
			DeckPath:   p.DeckPath,
			Index:      p.RestingIndex,
			SlideCount: p.SlideCount,
			UpdatedAt:  time.Unix(p.UpdatedAt, 0),
		}
	}
	return entries, nil
}

// Forget drops the remembered position for deckPath
func (s *Store) Forget(ctx context.Context, deckPath string) (bool, error) {
	key, err := normalize(deckPath)
	if err != nil {
		return false, err
	}
	return db.DeletePosition(ctx, s.db, key)
}

// normalize keys decks by absolute path
func normalize(deckPath string) (string, error) {
	abs, err := filepath.Abs(deckPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve deck path: %w", err)
	}
	return abs, nil
}
