package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/youruser/cahdeck/internal/config"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/sqlite"
	"github.com/youruser/cahdeck/internal/store"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(config.StoreConfig{Driver: config.DriverSQLite, DBPath: filepath.Join(dir, "db", "decks.db")}, nil)
	require.NoError(t, err)
	require.IsType(t, &sqlite.DeckRepository{}, s)
	saved, err := s.Save(context.Background(), deck.New(deck.NewBranding("x", "")))
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.NoError(t, s.Close())

	s, err = Open(config.StoreConfig{Driver: config.DriverFile, DecksDir: filepath.Join(dir, "decks")}, nil)
	require.NoError(t, err)
	require.IsType(t, &store.FileStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.StoreConfig{Driver: "redis"}, nil)
	require.Error(t, err)
}
