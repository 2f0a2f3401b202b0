package deck

import (
	"fmt"
	"strings"

	"github.com/youruser/cahdeck/internal/cards"
)

// ExportText renders the selected cards of a deck as a plain-text listing.
func ExportText(d *Deck, sel cards.Selection) string {
	var prompts, answers []cards.Card
	if sel.Includes(cards.Prompt) {
		prompts = d.Prompts
	}
	if sel.Includes(cards.Answer) {
		answers = d.Answers
	}

	lines := []string{
		"# " + d.Branding.Name,
		"Short name: " + d.Branding.ShortName,
		fmt.Sprintf("Total cards: %d", len(prompts)+len(answers)),
		"",
	}
	if len(prompts) > 0 {
		lines = append(lines,
			fmt.Sprintf("## Prompt cards (%d)", len(prompts)),
			`Prompt cards are the questions to complete. "`+cards.Blank+`" marks where an answer goes.`,
			"")
		for i, c := range prompts {
			pick := ""
			if c.Pick > 1 {
				pick = fmt.Sprintf(" [PICK %d]", c.Pick)
			}
			lines = append(lines, fmt.Sprintf("%d. %s%s", i+1, c.Text, pick))
		}
		lines = append(lines, "")
	}
	if len(answers) > 0 {
		lines = append(lines,
			fmt.Sprintf("## Answer cards (%d)", len(answers)),
			"Answer cards fill the blanks of the prompt cards.",
			"")
		for i, c := range answers {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, c.Text))
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
