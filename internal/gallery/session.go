// Package gallery ties the layout engine, the text filter and the culling
// rules together into the state one mounted gallery works with.
package gallery

import (
	"context"
	"fmt"

	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/scatter"
	"github.com/nikbrunner/gallery/internal/search"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// Mode selects how the filtered items are presented.
type Mode int

const (
	ModeGrid Mode = iota
	ModeScatter
)

func (m Mode) String() string {
	if m == ModeScatter {
		return "scatter"
	}
	return "grid"
}

// ParseMode maps "scatter" and "grid" to a Mode. Anything else is grid.
func ParseMode(s string) Mode {
	if s == "scatter" {
		return ModeScatter
	}
	return ModeGrid
}

// Source loads the paintings a session displays.
type Source interface {
	Paintings(ctx context.Context) ([]model.Painting, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]model.Painting, error)

func (f SourceFunc) Paintings(ctx context.Context) ([]model.Painting, error) {
	return f(ctx)
}

// Session holds the items of one gallery, the active filter, the derived
// layout and the lightbox cursor. Derived state is recomputed eagerly on
// every input change; reads never allocate a new layout.
type Session struct {
	params scatter.Params
	mode   Mode

	items    []model.GalleryItem
	query    string
	filtered []model.GalleryItem
	cards    []model.PlacedCard

	lightbox int // index into filtered, -1 when closed
}

// NewSession creates a session over items.
func NewSession(items []model.GalleryItem, params scatter.Params, mode Mode) *Session {
	s := &Session{params: params, mode: mode, lightbox: -1}
	s.SetItems(items)
	return s
}

// SetItems replaces the item list and keeps the current filter.
func (s *Session) SetItems(items []model.GalleryItem) {
	s.items = items
	s.recompute()
}

// SetQuery changes the filter text. The layout is recomputed for the
// filtered subset, so the same query always yields the same positions.
func (s *Session) SetQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.recompute()
}

func (s *Session) recompute() {
	s.filtered = search.Filter(s.items, s.query)
	s.cards = scatter.Layout(s.filtered, s.params)
	s.lightbox = -1
}

// Query returns the active filter text.
func (s *Session) Query() string { return s.query }

// Params returns the layout geometry.
func (s *Session) Params() scatter.Params { return s.params }

// Items returns every item, ignoring the filter.
func (s *Session) Items() []model.GalleryItem { return s.items }

// Filtered returns the items that pass the filter.
func (s *Session) Filtered() []model.GalleryItem { return s.filtered }

// Cards returns the laid-out filtered items.
func (s *Session) Cards() []model.PlacedCard { return s.cards }

// Mode returns the presentation mode.
func (s *Session) Mode() Mode { return s.mode }

// SetMode switches the presentation mode.
func (s *Session) SetMode(m Mode) { s.mode = m }

// ToggleMode flips between scatter and grid and returns the new mode.
func (s *Session) ToggleMode() Mode {
	if s.mode == ModeScatter {
		s.mode = ModeGrid
	} else {
		s.mode = ModeScatter
	}
	return s.mode
}

// Visible returns the cards under a w×h viewport at offset, padded by
// viewport.CullPadding.
func (s *Session) Visible(offset viewport.Point, w, h float64) []model.PlacedCard {
	return viewport.Visible(s.cards, offset, w, h, s.params.CardWidth, s.params.CardHeight, viewport.CullPadding)
}

// Status renders the "<visible> / <filtered> visible" counter.
func (s *Session) Status(visible int) string {
	return fmt.Sprintf("%d / %d visible", visible, len(s.filtered))
}

// GridColumns returns how many cardWidth-wide columns fit in width, never
// fewer than one.
func GridColumns(width, cardWidth float64) int {
	if cardWidth <= 0 {
		return 1
	}
	n := int(width / cardWidth)
	if n < 1 {
		return 1
	}
	return n
}
