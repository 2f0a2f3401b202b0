package cards

import (
	"fmt"
	"strings"
)

// Kind tells prompt cards (dark face, with blanks) from answer cards (light face).
type Kind int

const (
	Prompt Kind = iota + 1
	Answer
)

// String returns the serialized form of the kind.
func (k Kind) String() string {
	switch k {
	case Prompt:
		return "prompt"
	case Answer:
		return "answer"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "prompt"/"answer" and the legacy "black"/"white".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prompt", "black":
		return Prompt, nil
	case "answer", "white":
		return Answer, nil
	}
	return 0, fmt.Errorf("unknown card kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k != Prompt && k != Answer {
		return nil, fmt.Errorf("invalid card kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Card is a single prompt or answer card. ID is assigned by a store and is
// otherwise left empty.
type Card struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
	Pick int    `json:"pick"`
}

// New builds a card with a valid pick count: answers always pick 1 and
// prompts pick at least 1.
func New(text string, kind Kind, pick int) Card {
	if kind == Answer || pick < 1 {
		pick = 1
	}
	return Card{Text: text, Kind: kind, Pick: pick}
}

// Blank is the marker a prompt uses for a slot an answer fills.
const Blank = "_____"

// CountBlanks returns how many blanks the text carries.
func CountBlanks(text string) int {
	return strings.Count(text, Blank)
}
