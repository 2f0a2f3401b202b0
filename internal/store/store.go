package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
)

var (
	// ErrNotFound indicates the deck doesn't exist.
	ErrNotFound = errors.New("deck not found")
)

// Summary is a lightweight deck listing entry.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ShortName   string    `json:"shortName"`
	PromptCount int       `json:"promptCount"`
	AnswerCount int       `json:"answerCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Summary) TotalCards() int {
	return s.PromptCount + s.AnswerCount
}

// Store persists decks. Ids handed out by a store are opaque to callers.
type Store interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (*deck.Deck, error)
	// Save creates the deck when it has no id and replaces it otherwise. It
	// returns the stored deck with the deck and card ids filled in.
	Save(ctx context.Context, d *deck.Deck) (*deck.Deck, error)
	Delete(ctx context.Context, id string) error
	DefaultDeckID(ctx context.Context) (string, error)
	SetDefaultDeckID(ctx context.Context, id string) error
	Close() error
}

func summarize(d *deck.Deck, updated time.Time) Summary {
	return Summary{
		ID:          d.ID,
		Name:        d.Branding.Name,
		ShortName:   d.Branding.ShortName,
		PromptCount: len(d.Prompts),
		AnswerCount: len(d.Answers),
		UpdatedAt:   updated,
	}
}

// Seed creates a default deck from the catalog when the store has no decks
// yet and returns the default deck id.
func Seed(ctx context.Context, s Store, b deck.Branding, cat cards.Catalog, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	decks, err := s.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing decks: %w", err)
	}
	if len(decks) > 0 {
		id, err := s.DefaultDeckID(ctx)
		if errors.Is(err, ErrNotFound) {
			return decks[0].ID, nil
		}
		return id, err
	}

	saved, err := s.Save(ctx, deck.FromCatalog(b, cat))
	if err != nil {
		return "", fmt.Errorf("saving default deck: %w", err)
	}
	if err := s.SetDefaultDeckID(ctx, saved.ID); err != nil {
		return "", fmt.Errorf("setting default deck: %w", err)
	}
	logger.Info("seeded default deck",
		zap.String("id", saved.ID),
		zap.Int("prompts", len(saved.Prompts)),
		zap.Int("answers", len(saved.Answers)))
	return saved.ID, nil
}
