package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// ErrUnknownTheme is returned when a name matches neither a chroma style
// nor an alias.
var ErrUnknownTheme = errors.New("unknown theme")

// aliases maps theme names used by the site's markdown and older shiki
// payloads onto the closest chroma style.
var aliases = map[string]string{
	"gruvbox-dark-soft":    "gruvbox",
	"gruvbox-dark-medium":  "gruvbox",
	"gruvbox-dark-hard":    "gruvbox",
	"gruvbox-light-soft":   "gruvbox-light",
	"gruvbox-light-medium": "gruvbox-light",
	"gruvbox-light-hard":   "gruvbox-light",
	"github-light":         "github",
	"github-light-default": "github",
	"github-dark-default":  "github-dark",
	"github-dark-dimmed":   "github-dark",
	"one-dark-pro":         "onedark",
	"one-light":            "xcode",
	"tokyo-night":          "tokyonight-night",
	"light-plus":           "vs",
	"catppuccin":           "catppuccin-mocha",
	"rose-pine-main":       "rose-pine",
}

// Resolve returns the chroma style for name. Chroma style names win over
// aliases; lookups are case-insensitive.
func Resolve(name string) (*chroma.Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if style, ok := styles.Registry[key]; ok {
		return style, nil
	}
	if target, ok := aliases[key]; ok {
		if style, ok := styles.Registry[target]; ok {
			return style, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// Available returns list of available theme names
func Available() []string {
	names := styles.Names()
	for alias, target := range aliases {
		if _, ok := styles.Registry[target]; ok {
			names = append(names, alias)
		}
	}
	sort.Strings(names)
	return names
}

// AliasOf returns the chroma style an alias points at, or "" for names
// that are not aliases.
func AliasOf(name string) string {
	return aliases[strings.ToLower(name)]
}

// Swatch renders name using the style's own background and keyword colors
// so --list-themes doubles as a preview.
func Swatch(name string) string {
	style, err := Resolve(name)
	if err != nil {
		return name
	}

	bg := style.Get(chroma.Background)
	kw := style.Get(chroma.Keyword)

	s := lipgloss.NewStyle().Padding(0, 1)
	if bg.Background.IsSet() {
		s = s.Background(lipgloss.Color(bg.Background.String()))
	}
	switch {
	case kw.Colour.IsSet():
		s = s.Foreground(lipgloss.Color(kw.Colour.String()))
	case bg.Colour.IsSet():
		s = s.Foreground(lipgloss.Color(bg.Colour.String()))
	}
	if kw.Bold == chroma.Yes {
		s = s.Bold(true)
	}

	return s.Render(name)
}
