package viewport

import "github.com/nikbrunner/gallery/internal/model"

// CullPadding extends the viewport on every side so cards just outside it
// are already rendered when they scroll in.
const CullPadding = 400

// Rect is an axis-aligned box in canvas units.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// View returns the canvas region under a viewport of size w×h at offset,
// expanded by pad on each side.
func View(offset Point, w, h, pad float64) Rect {
	return Rect{
		Left:   -offset.X - pad,
		Top:    -offset.Y - pad,
		Right:  -offset.X + w + pad,
		Bottom: -offset.Y + h + pad,
	}
}

// Intersects reports whether a cw×ch card at (x, y) overlaps r. Touching
// edges do not count.
func (r Rect) Intersects(x, y, cw, ch float64) bool {
	return x+cw > r.Left && x < r.Right && y+ch > r.Top && y < r.Bottom
}

// Visible returns the cards whose box meets the padded viewport, preserving
// order. With unknown geometry (w or h not positive) every card is returned.
func Visible(cards []model.PlacedCard, offset Point, w, h, cw, ch, pad float64) []model.PlacedCard {
	if w <= 0 || h <= 0 {
		return cards
	}

	view := View(offset, w, h, pad)
	visible := make([]model.PlacedCard, 0, len(cards))
	for _, c := range cards {
		if view.Intersects(c.X, c.Y, cw, ch) {
			visible = append(visible, c)
		}
	}
	return visible
}
