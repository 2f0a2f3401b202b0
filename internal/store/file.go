package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/util"
)

const settingsFile = "settings.json"

type settings struct {
	DefaultDeckID string `json:"defaultDeckId,omitempty"`
}

// FileStore keeps one JSON deck document per file in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create decks dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") ||
		id+".json" == settingsFile {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// List skips files that are not valid deck documents.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	var out []Summary
	for _, m := range matches {
		if filepath.Base(m) == settingsFile {
			continue
		}
		d, info, err := readDeckFile(m)
		if err != nil {
			s.logger.Warn("skipping unreadable deck file", zap.String("path", m), zap.Error(err))
			continue
		}
		out = append(out, summarize(d, info.ModTime()))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func readDeckFile(path string) (*deck.Deck, os.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	d, err := deck.Unmarshal(data)
	if err != nil {
		return nil, nil, err
	}
	if d.ID == "" {
		d.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	return d, info, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	d, _, err := readDeckFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	return d, nil
}

func (s *FileStore) Save(ctx context.Context, d *deck.Deck) (*deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := deck.Merge(d)
	out.ID = d.ID
	if out.ID == "" {
		out.ID = uuid.NewString()
	} else if path, err := s.path(out.ID); err != nil {
		return nil, err
	} else if _, err := os.Stat(path); err != nil {
		return nil, ErrNotFound
	}
	// Merge strips card ids; carry over the ones the caller had.
	for i := range out.Prompts {
		out.Prompts[i].ID = cardID(d.Prompts[i].ID)
	}
	for i := range out.Answers {
		out.Answers[i].ID = cardID(d.Answers[i].ID)
	}

	data, err := deck.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	path, _ := s.path(out.ID)
	if err := util.WriteFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("failed to save deck: %w", err)
	}
	return out, nil
}

func cardID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	st, err := s.readSettings()
	if err == nil && st.DefaultDeckID == id {
		st.DefaultDeckID = ""
		return s.writeSettings(st)
	}
	return nil
}

func (s *FileStore) DefaultDeckID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.readSettings()
	if err != nil {
		return "", err
	}
	if st.DefaultDeckID == "" {
		return "", ErrNotFound
	}
	return st.DefaultDeckID, nil
}

func (s *FileStore) SetDefaultDeckID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return ErrNotFound
	}
	st, err := s.readSettings()
	if err != nil {
		return err
	}
	st.DefaultDeckID = id
	return s.writeSettings(st)
}

func (s *FileStore) readSettings() (settings, error) {
	var st settings
	data, err := os.ReadFile(filepath.Join(s.dir, settingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("failed to parse settings: %w", err)
	}
	return st, nil
}

func (s *FileStore) writeSettings(st settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(filepath.Join(s.dir, settingsFile), data)
}

func (s *FileStore) Close() error { return nil }
