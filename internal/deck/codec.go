package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/youruser/cahdeck/internal/cards"
)

// wire types keep every field optional so missing ones can be told apart
// from zero values.
type wireDeck struct {
	ID       string      `json:"id,omitempty"`
	Branding *Branding   `json:"branding"`
	Prompts  *[]wireCard `json:"promptCards"`
	Answers  *[]wireCard `json:"answerCards"`
}

type wireCard struct {
	ID   string  `json:"id,omitempty"`
	Text *string `json:"text"`
	Kind *string `json:"kind"`
	Pick *int    `json:"pick"`
}

// Marshal serializes a deck to its indented JSON document.
func Marshal(d *Deck) ([]byte, error) {
	out := *d
	if out.Prompts == nil {
		out.Prompts = []cards.Card{}
	}
	if out.Answers == nil {
		out.Answers = []cards.Card{}
	}
	return json.MarshalIndent(&out, "", "  ")
}

// Unmarshal parses a deck document. Card fields are all required; branding
// fields fall back to defaults only when missing or invalid.
func Unmarshal(data []byte) (*Deck, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var w wireDeck
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}
	if w.Branding == nil {
		return nil, fmt.Errorf("%w: missing branding", ErrMalformed)
	}
	if w.Prompts == nil {
		return nil, fmt.Errorf("%w: missing promptCards", ErrMalformed)
	}
	if w.Answers == nil {
		return nil, fmt.Errorf("%w: missing answerCards", ErrMalformed)
	}

	d := New(w.Branding.withDefaults())
	d.ID = w.ID
	for i, wc := range *w.Prompts {
		c, err := wc.card(cards.Prompt)
		if err != nil {
			return nil, fmt.Errorf("%w: promptCards[%d]: %v", ErrMalformed, i, err)
		}
		d.Prompts = append(d.Prompts, c)
	}
	for i, wc := range *w.Answers {
		c, err := wc.card(cards.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: answerCards[%d]: %v", ErrMalformed, i, err)
		}
		d.Answers = append(d.Answers, c)
	}
	return d, nil
}

func (wc wireCard) card(want cards.Kind) (cards.Card, error) {
	if wc.Text == nil {
		return cards.Card{}, fmt.Errorf("missing text")
	}
	if wc.Kind == nil {
		return cards.Card{}, fmt.Errorf("missing kind")
	}
	if wc.Pick == nil {
		return cards.Card{}, fmt.Errorf("missing pick")
	}
	kind, err := cards.ParseKind(*wc.Kind)
	if err != nil {
		return cards.Card{}, err
	}
	if kind != want {
		return cards.Card{}, fmt.Errorf("%s card in %s list", kind, want)
	}
	pick := *wc.Pick
	if pick < 1 {
		return cards.Card{}, fmt.Errorf("pick %d below 1", pick)
	}
	if kind == cards.Answer && pick != 1 {
		return cards.Card{}, fmt.Errorf("answer card with pick %d", pick)
	}
	return cards.Card{ID: wc.ID, Text: *wc.Text, Kind: kind, Pick: pick}, nil
}

// Write serializes d to w.
func Write(w io.Writer, d *Deck) error {
	b, err := Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Read parses a deck document from r.
func Read(r io.Reader) (*Deck, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(b)
}
