package deck

import (
	"regexp"
	"strings"
)

const (
	DefaultName           = "Cards Against Humanity"
	DefaultShortName      = "CAH"
	DefaultPrimaryColor   = "#000000"
	DefaultSecondaryColor = "#FFFFFF"

	MaxShortNameLen = 5
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Branding is the per-deck decoration printed on every card.
type Branding struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	// DarkLogo is drawn on prompt faces, LightLogo on answer faces. Either may
	// be a file path or an http(s) URL.
	DarkLogo       string `json:"darkLogoPath,omitempty"`
	LightLogo      string `json:"lightLogoPath,omitempty"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
}

// NewBranding returns normalized branding with default colors.
func NewBranding(name, shortName string) Branding {
	return Branding{Name: name, ShortName: shortName}.Normalize()
}

// Normalize applies the boundary rules: default name, a short name of at most
// five upper-case characters, and #RRGGBB colors.
func (b Branding) Normalize() Branding {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		b.Name = DefaultName
	}
	b.ShortName = NormalizeShortName(b.ShortName)
	if b.ShortName == "" {
		b.ShortName = DefaultShortName
	}
	if !hexColor.MatchString(b.PrimaryColor) {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if !hexColor.MatchString(b.SecondaryColor) {
		b.SecondaryColor = DefaultSecondaryColor
	}
	b.PrimaryColor = strings.ToUpper(b.PrimaryColor)
	b.SecondaryColor = strings.ToUpper(b.SecondaryColor)
	return b
}

// withDefaults fills in fields that are missing or invalid and leaves valid
// values exactly as they are.
func (b Branding) withDefaults() Branding {
	if strings.TrimSpace(b.Name) == "" {
		b.Name = DefaultName
	}
	if b.ShortName != NormalizeShortName(b.ShortName) {
		b.ShortName = NormalizeShortName(b.ShortName)
	}
	if b.ShortName == "" {
		b.ShortName = DefaultShortName
	}
	if !hexColor.MatchString(b.PrimaryColor) {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if !hexColor.MatchString(b.SecondaryColor) {
		b.SecondaryColor = DefaultSecondaryColor
	}
	return b
}

// NormalizeShortName trims, truncates to MaxShortNameLen runes and upper-cases.
func NormalizeShortName(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > MaxShortNameLen {
		r = r[:MaxShortNameLen]
	}
	return strings.ToUpper(string(r))
}

// LogoFor returns the logo reference for a dark (prompt) or light face.
func (b Branding) LogoFor(dark bool) string {
	if dark {
		return b.DarkLogo
	}
	return b.LightLogo
}
