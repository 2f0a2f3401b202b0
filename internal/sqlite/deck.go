package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/store"
)

const defaultDeckKey = "default_deck_id"

// DeckRepository implements store.Store for SQLite
type DeckRepository struct {
	db *DB
}

// NewDeckRepository creates a new DeckRepository
func NewDeckRepository(db *DB) *DeckRepository {
	return &DeckRepository{db: db}
}

var _ store.Store = (*DeckRepository)(nil)

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, store.ErrNotFound
	}
	return n, nil
}

// List returns all decks with their card counts, most recently updated first
func (r *DeckRepository) List(ctx context.Context) ([]store.Summary, error) {
	query := `
		SELECT
			d.id,
			d.name,
			d.short_name,
			d.updated_at,
			COUNT(CASE WHEN c.kind = 'prompt' THEN 1 END) AS prompt_count,
			COUNT(CASE WHEN c.kind = 'answer' THEN 1 END) AS answer_count
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.updated_at DESC, d.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var summaries []store.Summary
	for rows.Next() {
		var s store.Summary
		var id int64
		if err := rows.Scan(&id, &s.Name, &s.ShortName, &s.UpdatedAt, &s.PromptCount, &s.AnswerCount); err != nil {
			return nil, fmt.Errorf("failed to scan deck summary: %w", err)
		}
		s.ID = strconv.FormatInt(id, 10)
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deck rows: %w", err)
	}

	return summaries, nil
}

// Get loads a deck and its cards in their stored order
func (r *DeckRepository) Get(ctx context.Context, id string) (*deck.Deck, error) {
	deckID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT name, short_name, dark_logo, light_logo, primary_color, secondary_color
		FROM decks
		WHERE id = ?
	`
	var b deck.Branding
	err = r.db.QueryRowContext(ctx, query, deckID).Scan(
		&b.Name,
		&b.ShortName,
		&b.DarkLogo,
		&b.LightLogo,
		&b.PrimaryColor,
		&b.SecondaryColor,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	d := deck.New(b)
	d.ID = strconv.FormatInt(deckID, 10)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, kind, pick
		FROM cards
		WHERE deck_id = ?
		ORDER BY position, id
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cardID int64
		var c cards.Card
		var kind string
		if err := rows.Scan(&cardID, &c.Text, &kind, &c.Pick); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if c.Kind, err = cards.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("failed to scan card %d: %w", cardID, err)
		}
		c.ID = strconv.FormatInt(cardID, 10)
		d.Add(c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return d, nil
}

// Save inserts or replaces a deck and its cards in one transaction. Card ids
// that already belong to the deck are kept; every other card gets a new id.
func (r *DeckRepository) Save(ctx context.Context, d *deck.Deck) (*deck.Deck, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	b := d.Branding
	var deckID int64
	if d.ID == "" {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO decks (name, short_name, dark_logo, light_logo, primary_color, secondary_color)
			VALUES (?, ?, ?, ?, ?, ?)
		`, b.Name, b.ShortName, b.DarkLogo, b.LightLogo, b.PrimaryColor, b.SecondaryColor)
		if err != nil {
			return nil, fmt.Errorf("failed to create deck: %w", err)
		}
		if deckID, err = res.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to get deck id: %w", err)
		}
	} else {
		if deckID, err = parseID(d.ID); err != nil {
			return nil, err
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE decks
			SET name = ?, short_name = ?, dark_logo = ?, light_logo = ?,
			    primary_color = ?, secondary_color = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, b.Name, b.ShortName, b.DarkLogo, b.LightLogo, b.PrimaryColor, b.SecondaryColor, deckID)
		if err != nil {
			return nil, fmt.Errorf("failed to update deck: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return nil, store.ErrNotFound
		}
	}

	owned, err := ownedCardIDs(ctx, tx, deckID)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, deckID); err != nil {
		return nil, fmt.Errorf("failed to clear cards: %w", err)
	}

	out := deck.New(b)
	out.ID = strconv.FormatInt(deckID, 10)
	position := 0
	for _, list := range [][]cards.Card{d.Prompts, d.Answers} {
		for _, c := range list {
			c.ID, err = insertCard(ctx, tx, deckID, position, c, owned)
			if err != nil {
				return nil, err
			}
			out.Add(c)
			position++
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return out, nil
}

func ownedCardIDs(ctx context.Context, tx *sql.Tx, deckID int64) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM cards WHERE deck_id = ?`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list card ids: %w", err)
	}
	defer rows.Close()

	owned := map[string]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card id: %w", err)
		}
		owned[strconv.FormatInt(id, 10)] = true
	}
	return owned, rows.Err()
}

func insertCard(ctx context.Context, tx *sql.Tx, deckID int64, position int, c cards.Card, owned map[string]bool) (string, error) {
	c = normalized(c)
	var res sql.Result
	var err error
	if owned[c.ID] {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO cards (id, deck_id, position, text, kind, pick)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, deckID, position, c.Text, c.Kind.String(), c.Pick)
	} else {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO cards (deck_id, position, text, kind, pick)
			VALUES (?, ?, ?, ?, ?)
		`, deckID, position, c.Text, c.Kind.String(), c.Pick)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert card: %w", err)
	}
	if owned[c.ID] {
		return c.ID, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to get card id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func normalized(c cards.Card) cards.Card {
	n := cards.New(c.Text, c.Kind, c.Pick)
	n.ID = c.ID
	return n
}

// Delete removes a deck; its cards go with it
func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	deckID, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DefaultDeckID returns the configured default deck, if it still exists
func (r *DeckRepository) DefaultDeckID(ctx context.Context) (string, error) {
	query := `
		SELECT s.value
		FROM settings s
		JOIN decks d ON d.id = CAST(s.value AS INTEGER)
		WHERE s.key = ?
	`
	var id string
	err := r.db.QueryRowContext(ctx, query, defaultDeckKey).Scan(&id)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get default deck: %w", err)
	}
	return id, nil
}

func (r *DeckRepository) SetDefaultDeckID(ctx context.Context, id string) error {
	deckID, err := parseID(id)
	if err != nil {
		return err
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM decks WHERE id = ?`, deckID).Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check deck: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, defaultDeckKey, strconv.FormatInt(deckID, 10))
	if err != nil {
		return fmt.Errorf("failed to set default deck: %w", err)
	}
	return nil
}

func (r *DeckRepository) Close() error {
	return r.db.Close()
}
