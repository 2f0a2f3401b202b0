package cards

import (
	"fmt"
	"strings"
)

// Selection picks which cards of a deck take part in an export.
type Selection string

const (
	All     Selection = "all"
	Prompts Selection = "prompts"
	Answers Selection = "answers"
)

// ParseSelection accepts the selection names plus the legacy "black"/"white".
// An empty string means All.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "prompts", "prompt", "black":
		return Prompts, nil
	case "answers", "answer", "white":
		return Answers, nil
	}
	return "", fmt.Errorf("unknown card selection %q", s)
}

// Includes reports whether cards of kind k belong to the selection.
func (s Selection) Includes(k Kind) bool {
	switch s {
	case All:
		return true
	case Prompts:
		return k == Prompt
	case Answers:
		return k == Answer
	}
	return false
}

type FilterOptions struct {
	Kinds     []Kind
	FreeWords string // every word must appear in the text, case-insensitive
	MinPick   int
}

func Filter(cards []Card, opt FilterOptions) []Card {
	var out []Card
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, c := range cards {
		if len(opt.Kinds) > 0 {
			matched := false
			for _, k := range opt.Kinds {
				if c.Kind == k {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if opt.MinPick > 0 && c.Pick < opt.MinPick {
			continue
		}
		if len(kw) > 0 {
			text := strings.ToLower(c.Text)
			ok := true
			for _, k := range kw {
				if !strings.Contains(text, k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
