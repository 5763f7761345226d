package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/gallery/internal/state"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	Card         lipgloss.Style // card border on the canvas
	CardFocused  lipgloss.Style // card nearest the viewport center
	CardTitle    lipgloss.Style
	CardSubtitle lipgloss.Style
	Tile         lipgloss.Style // grid mode tile
	TileSelected lipgloss.Style
	URL          lipgloss.Style
	Status       lipgloss.Style
	Empty        lipgloss.Style
	Error        lipgloss.Style
	Lightbox     lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Tab", "h/j/k/l")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "toggle", "pan")
}

// DefaultStyles returns the default style configuration.
// Gallery walls: grayscale with a single warm ochre accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#404040", Dark: "#B0B0B0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#9A6A1F", Dark: "#C8964A"}  // ochre
	border := lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#4A4A4A"}  // card frames
	danger := lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}

	return Styles{
		App: lipgloss.NewStyle(),

		Header: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Card: lipgloss.NewStyle().
			Foreground(border),

		CardFocused: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		CardTitle: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		CardSubtitle: lipgloss.NewStyle().
			Foreground(subtle),

		Tile: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		TileSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		URL: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		Status: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		Error: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),

		Lightbox: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

// ApplyTheme forces the adaptive colors to their light or dark variant.
// ThemeSystem keeps lipgloss' own background detection.
func ApplyTheme(t state.Theme) {
	switch t {
	case state.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case state.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	}
}
