package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrap packs the words of text greedily into lines of at most maxChars
// characters. A word longer than maxChars is kept whole on its own line.
func Wrap(text string, maxChars int) []string {
	var lines []string
	var cur strings.Builder
	curLen := 0

	for _, word := range strings.Fields(text) {
		n := utf8.RuneCountInString(word)
		if curLen == 0 {
			cur.WriteString(word)
			curLen = n
			continue
		}
		if curLen+1+n <= maxChars {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curLen += 1 + n
			continue
		}
		lines = append(lines, cur.String())
		cur.Reset()
		cur.WriteString(word)
		curLen = n
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
