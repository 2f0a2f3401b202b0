package cards

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Catalog is a seed set of cards, split by kind.
type Catalog struct {
	Prompts []Card
	Answers []Card
}

type catalogEntry struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

type catalogFile struct {
	Prompts    []catalogEntry `json:"prompts"`
	Answers    []catalogEntry `json:"answers"`
	BlackCards []catalogEntry `json:"black_cards"`
	WhiteCards []catalogEntry `json:"white_cards"`
}

// LoadCatalog reads a JSON card catalog. Prompts without an explicit pick
// pick as many answers as they have blanks.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var f catalogFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	var cat Catalog
	for _, e := range append(f.Prompts, f.BlackCards...) {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		pick := e.Pick
		if pick == 0 {
			pick = CountBlanks(text)
		}
		cat.Prompts = append(cat.Prompts, New(text, Prompt, pick))
	}
	for _, e := range append(f.Answers, f.WhiteCards...) {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		cat.Answers = append(cat.Answers, New(text, Answer, 1))
	}
	return cat, nil
}

// LoadCatalogFromDataDir loads cards.json and the optional custom_cards.csv
// from a data directory (best-effort: missing files are skipped).
func LoadCatalogFromDataDir(dataDir string) (Catalog, error) {
	var cat Catalog
	var found bool

	jsonPath := filepath.Join(dataDir, "cards.json")
	if fp, err := os.Open(jsonPath); err == nil {
		found = true
		c, err := LoadCatalog(fp)
		fp.Close()
		if err != nil {
			return Catalog{}, fmt.Errorf("loading %s: %w", jsonPath, err)
		}
		cat = c
	}

	csvPath := filepath.Join(dataDir, "custom_cards.csv")
	if fp, err := os.Open(csvPath); err == nil {
		found = true
		cs, err := LoadCSV(fp)
		fp.Close()
		if err != nil {
			return Catalog{}, fmt.Errorf("loading %s: %w", csvPath, err)
		}
		for _, c := range cs {
			if c.Kind == Prompt {
				cat.Prompts = append(cat.Prompts, c)
			} else {
				cat.Answers = append(cat.Answers, c)
			}
		}
	}

	if !found {
		return Catalog{}, fmt.Errorf("no card catalog found in %s", dataDir)
	}
	return cat, nil
}

// LoadCSV reads cards from a CSV with a header row naming the text, kind and
// (optional) pick columns.
func LoadCSV(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["text"]; !ok {
		return nil, fmt.Errorf("csv header has no text column")
	}
	if _, ok := cols["kind"]; !ok {
		return nil, fmt.Errorf("csv header has no kind column")
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Card{}
	for i, row := range rows[1:] {
		text := get(row, "text")
		if text == "" {
			continue
		}
		kind, err := ParseKind(get(row, "kind"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		pick := 0
		if s := get(row, "pick"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid pick %q", i+2, s)
			}
			pick = v
		} else if kind == Prompt {
			pick = CountBlanks(text)
		}
		out = append(out, New(text, kind, pick))
	}
	return out, nil
}

// ParseBatch turns raw lines into cards. Blank lines are skipped and each
// prompt picks as many answers as it has blanks.
func ParseBatch(prompts, answers []string) []Card {
	var out []Card
	for _, line := range prompts {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		out = append(out, New(text, Prompt, CountBlanks(text)))
	}
	for _, line := range answers {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		out = append(out, New(text, Answer, 1))
	}
	return out
}
