package cards

import (
	"errors"
	"math/rand/v2"
	"strings"
)

var (
	ErrNoPrompts = errors.New("no prompt cards to draw from")
	ErrNoAnswers = errors.New("no answer cards to draw from")
)

// Combo is one prompt filled in with randomly drawn answers.
type Combo struct {
	Prompt  Card   `json:"prompt"`
	Answers []Card `json:"answers"`
	Text    string `json:"text"`
}

// RandomCombo draws a prompt and as many distinct answers as it needs (the
// larger of its pick and its blank count, capped by what is available).
func RandomCombo(rng *rand.Rand, prompts, answers []Card) (Combo, error) {
	if len(prompts) == 0 {
		return Combo{}, ErrNoPrompts
	}
	if len(answers) == 0 {
		return Combo{}, ErrNoAnswers
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	p := prompts[rng.IntN(len(prompts))]
	need := max(p.Pick, CountBlanks(p.Text), 1)
	need = min(need, len(answers))

	order := rng.Perm(len(answers))
	chosen := make([]Card, 0, need)
	for _, i := range order[:need] {
		chosen = append(chosen, answers[i])
	}

	return Combo{Prompt: p, Answers: chosen, Text: FillBlanks(p.Text, chosen)}, nil
}

// FillBlanks substitutes answers into the prompt's blanks in order. Blanks
// left over stay as they are; a prompt without blanks gets the answers
// appended.
func FillBlanks(prompt string, answers []Card) string {
	if CountBlanks(prompt) == 0 {
		if len(answers) == 0 {
			return prompt
		}
		texts := make([]string, len(answers))
		for i, a := range answers {
			texts[i] = a.Text
		}
		return prompt + " " + strings.Join(texts, ", ")
	}
	out := prompt
	for _, a := range answers {
		out = strings.Replace(out, Blank, strings.TrimSuffix(a.Text, "."), 1)
	}
	return out
}
