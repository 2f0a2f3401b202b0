package deck

import (
	"fmt"
	"strings"

	"github.com/youruser/cahdeck/internal/cards"
)

// Deck is a named set of prompt and answer cards. The deck owns its card
// slices: every card in Prompts is a prompt and every card in Answers is an
// answer.
type Deck struct {
	ID       string       `json:"id,omitempty"`
	Branding Branding     `json:"branding"`
	Prompts  []cards.Card `json:"promptCards"`
	Answers  []cards.Card `json:"answerCards"`
}

// New creates an empty deck.
func New(b Branding) *Deck {
	return &Deck{Branding: b, Prompts: []cards.Card{}, Answers: []cards.Card{}}
}

// FromCatalog builds a deck seeded with a copy of the catalog's cards.
func FromCatalog(b Branding, cat cards.Catalog) *Deck {
	d := New(b)
	for _, c := range cat.Prompts {
		d.Add(c)
	}
	for _, c := range cat.Answers {
		d.Add(c)
	}
	return d
}

func (d *Deck) TotalCards() int {
	return len(d.Prompts) + len(d.Answers)
}

// AddCard creates a card and appends it to the list for its kind. Answers
// always pick 1.
func (d *Deck) AddCard(text string, kind cards.Kind, pick int) cards.Card {
	c := cards.New(text, kind, pick)
	d.Add(c)
	return c
}

// Add appends an existing card value, normalizing its pick count. Cards of
// an unknown kind are not added and Add reports false.
func (d *Deck) Add(c cards.Card) bool {
	id := c.ID
	c = cards.New(c.Text, c.Kind, c.Pick)
	c.ID = id
	switch c.Kind {
	case cards.Prompt:
		d.Prompts = append(d.Prompts, c)
	case cards.Answer:
		d.Answers = append(d.Answers, c)
	default:
		return false
	}
	return true
}

func (d *Deck) list(kind cards.Kind) *[]cards.Card {
	if kind == cards.Prompt {
		return &d.Prompts
	}
	return &d.Answers
}

// Card returns the card at index of the given kind.
func (d *Deck) Card(kind cards.Kind, index int) (cards.Card, error) {
	l := *d.list(kind)
	if index < 0 || index >= len(l) {
		return cards.Card{}, fmt.Errorf("%w: %s card %d", ErrInvalidIndex, kind, index)
	}
	return l[index], nil
}

// RemoveCard deletes the card at index of the given kind.
func (d *Deck) RemoveCard(kind cards.Kind, index int) (cards.Card, bool) {
	l := d.list(kind)
	if index < 0 || index >= len(*l) {
		return cards.Card{}, false
	}
	c := (*l)[index]
	*l = append((*l)[:index:index], (*l)[index+1:]...)
	return c, true
}

// UpdateCard replaces the text and pick of a card in place, keeping its id.
func (d *Deck) UpdateCard(kind cards.Kind, index int, text string, pick int) (cards.Card, error) {
	l := *d.list(kind)
	if index < 0 || index >= len(l) {
		return cards.Card{}, fmt.Errorf("%w: %s card %d", ErrInvalidIndex, kind, index)
	}
	c := cards.New(text, kind, pick)
	c.ID = l[index].ID
	l[index] = c
	return c, nil
}

// Select returns copies of the cards in the selection, prompts first.
func (d *Deck) Select(sel cards.Selection) []cards.Card {
	var out []cards.Card
	if sel.Includes(cards.Prompt) {
		out = append(out, d.Prompts...)
	}
	if sel.Includes(cards.Answer) {
		out = append(out, d.Answers...)
	}
	return out
}

// Duplicate returns an unsaved copy of the deck under a new name.
func (d *Deck) Duplicate(newName string) *Deck {
	b := d.Branding
	if strings.TrimSpace(newName) == "" {
		newName = b.Name + " (copy)"
	}
	b.Name = newName
	out := Merge(d)
	out.Branding = b.Normalize()
	return out
}

// Merge builds a new deck with base's branding and the cards of base followed
// by each other deck in argument order. Cards are copied without store ids.
func Merge(base *Deck, others ...*Deck) *Deck {
	out := New(base.Branding)
	for _, src := range append([]*Deck{base}, others...) {
		for _, c := range src.Prompts {
			c.ID = ""
			out.Prompts = append(out.Prompts, c)
		}
		for _, c := range src.Answers {
			c.ID = ""
			out.Answers = append(out.Answers, c)
		}
	}
	return out
}
