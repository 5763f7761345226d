package tui

import (
	"strings"

	"github.com/nikbrunner/gallery/internal/gallery"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "h/j/k/l", "Enter")
	Desc string // Short description (e.g., "pan", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for bottom bar: "h/j/k/l:pan Enter:open q:quit"
func (a App) renderHints(hints HintSet) string {
	allHints := hints.All()
	if len(allHints) == 0 {
		return ""
	}

	parts := make([]string, len(allHints))
	for i, h := range allHints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for the lightbox: "Y copy  Esc close"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (h/j/k/l, drag)
	Action []Hint // Action hints (Enter, Tab, /)
	System []Hint // System hints (r, q, Esc)
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeLoading:
		return HintSet{System: []Hint{{Key: "q", Desc: "quit"}}}
	case ModeError:
		return HintSet{System: []Hint{{Key: "r", Desc: "retry"}, {Key: "q", Desc: "quit"}}}
	case ModeFilter:
		return a.getFilterModeHints()
	case ModeLightbox:
		return HintSet{Nav: a.getLightboxHints()}
	}
	if a.session.Mode() == gallery.ModeGrid {
		return a.getGridModeHints()
	}
	return a.getScatterModeHints()
}

// getScatterModeHints returns hints for browsing the scattered canvas.
func (a App) getScatterModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "h/j/k/l", Desc: "pan"},
			{Key: "c", Desc: "center"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "open"},
			{Key: "/", Desc: "filter"},
			{Key: "Tab", Desc: "grid"},
		},
		System: []Hint{
			{Key: "q", Desc: "quit"},
		},
	}
	if a.session.Query() != "" {
		hints.System = append([]Hint{{Key: "Esc", Desc: "clear"}}, hints.System...)
	}
	return hints
}

// getGridModeHints returns hints for the grid.
func (a App) getGridModeHints() HintSet {
	hints := HintSet{
		Nav: []Hint{
			{Key: "h/j/k/l", Desc: "move"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "open"},
			{Key: "/", Desc: "filter"},
			{Key: "Tab", Desc: "scatter"},
		},
		System: []Hint{
			{Key: "q", Desc: "quit"},
		},
	}
	if a.session.Query() != "" {
		hints.System = append([]Hint{{Key: "Esc", Desc: "clear"}}, hints.System...)
	}
	return hints
}

// getFilterModeHints returns hints for ModeFilter (filter input focused).
func (a App) getFilterModeHints() HintSet {
	return HintSet{
		Nav: []Hint{
			{Key: "type", Desc: "filter"},
		},
		Action: []Hint{
			{Key: "Enter", Desc: "apply"},
		},
		System: []Hint{
			{Key: "Esc", Desc: "cancel"},
		},
	}
}

// getLightboxHints returns the hints shown inside the lightbox.
func (a App) getLightboxHints() []Hint {
	return []Hint{
		{Key: "←/→", Desc: "browse"},
		{Key: "Y", Desc: "copy URL"},
		{Key: "o", Desc: "open"},
		{Key: "Esc", Desc: "close"},
	}
}
