package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	db, err := Init(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	version, err := GetUserVersion(db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestInitIsRepeatable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	first, err := Init(dbPath)
	require.NoError(t, err)
	require.NoError(t, UpsertPosition(context.Background(), first, Position{
		ID: "01A", DeckPath: "/deck.md", RestingIndex: 2, SlideCount: 4, UpdatedAt: 1,
	}))
	first.Close()

	second, err := Init(dbPath)
	require.NoError(t, err)
	defer second.Close()

	p, err := GetPosition(context.Background(), second, "/deck.md")
	require.NoError(t, err)
	assert.Equal(t, 2, p.RestingIndex)
}

func TestPositionQueries(t *testing.T) {
	ctx := context.Background()
	db, err := Init(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = GetPosition(ctx, db, "/a.md")
	assert.ErrorIs(t, err, ErrNoPosition)

	require.NoError(t, UpsertPosition(ctx, db, Position{ID: "01A", DeckPath: "/a.md", RestingIndex: 1, SlideCount: 3, UpdatedAt: 10}))
	require.NoError(t, UpsertPosition(ctx, db, Position{ID: "01B", DeckPath: "/b.md", RestingIndex: 0, SlideCount: 2, UpdatedAt: 20}))
	require.NoError(t, UpsertPosition(ctx, db, Position{ID: "01C", DeckPath: "/a.md", RestingIndex: 2, SlideCount: 3, UpdatedAt: 30}))

	a, err := GetPosition(ctx, db, "/a.md")
	require.NoError(t, err)
	assert.Equal(t, "01A", a.ID, "upsert keeps the original id")
	assert.Equal(t, 2, a.RestingIndex)

	list, err := ListPositions(ctx, db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "/a.md", list[0].DeckPath)

	removed, err := DeletePosition(ctx, db, "/a.md")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = DeletePosition(ctx, db, "/a.md")
	require.NoError(t, err)
	assert.False(t, removed)
}
