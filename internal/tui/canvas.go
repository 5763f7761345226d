package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/tui/layout"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// cellStyle indexes the styles a canvas cell can carry.
type cellStyle uint8

const (
	styleBlank cellStyle = iota
	styleFrame
	styleFocus
	styleTitle
	styleSubtitle
)

// cellBuffer is a cols×rows grid of runes painted back to front.
type cellBuffer struct {
	cols, rows int
	runes      []rune
	styles     []cellStyle
}

func newCellBuffer(cols, rows int) *cellBuffer {
	b := &cellBuffer{
		cols:   cols,
		rows:   rows,
		runes:  make([]rune, cols*rows),
		styles: make([]cellStyle, cols*rows),
	}
	for i := range b.runes {
		b.runes[i] = ' '
	}
	return b
}

// set paints one cell; cells outside the buffer are dropped.
func (b *cellBuffer) set(col, row int, r rune, s cellStyle) {
	if col < 0 || col >= b.cols || row < 0 || row >= b.rows {
		return
	}
	b.runes[row*b.cols+col] = r
	b.styles[row*b.cols+col] = s
}

// text paints s starting at col, one rune per cell.
func (b *cellBuffer) text(col, row int, s string, st cellStyle) {
	for i, r := range []rune(s) {
		b.set(col+i, row, r, st)
	}
}

// render joins the rows, styling each run of equally styled cells once.
func (b *cellBuffer) render(styles map[cellStyle]lipgloss.Style) string {
	var out strings.Builder
	var run strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		start := row * b.cols
		current := styleBlank
		for col := 0; col < b.cols; col++ {
			st := b.styles[start+col]
			if st != current && run.Len() > 0 {
				out.WriteString(renderRun(run.String(), current, styles))
				run.Reset()
			}
			current = st
			run.WriteRune(b.runes[start+col])
		}
		out.WriteString(renderRun(run.String(), current, styles))
		run.Reset()
	}
	return out.String()
}

func renderRun(s string, st cellStyle, styles map[cellStyle]lipgloss.Style) string {
	if style, ok := styles[st]; ok {
		return style.Render(s)
	}
	return s
}

// cardShear returns the horizontal shift, in cells, of each row of a card
// tilted by rotation degrees. Terminals cannot rotate text, so the tilt is
// approximated by sliding rows around the card's middle.
func cardShear(rotation float64, rows int, cfg layout.CanvasConfig) []int {
	sin := math.Sin(rotation * math.Pi / 180)
	shifts := make([]int, rows)
	mid := float64(rows-1) / 2
	for r := range shifts {
		dy := (float64(r) - mid) * cfg.CellHeight
		shifts[r] = int(math.Round(-dy * sin / cfg.CellWidth))
	}
	return shifts
}

// drawCard paints a framed card with its artwork placeholder and caption.
func drawCard(b *cellBuffer, col, row, w, h int, shear []int, item model.GalleryItem, focused bool, text layout.TextConfig) {
	frame := styleFrame
	if focused {
		frame = styleFocus
	}
	inner := w - 2

	for r := 0; r < h; r++ {
		x := col + shear[r]
		y := row + r
		switch r {
		case 0:
			b.set(x, y, '╭', frame)
			b.text(x+1, y, strings.Repeat("─", inner), frame)
			b.set(x+w-1, y, '╮', frame)
			continue
		case h - 1:
			b.set(x, y, '╰', frame)
			b.text(x+1, y, strings.Repeat("─", inner), frame)
			b.set(x+w-1, y, '╯', frame)
			continue
		}

		b.set(x, y, '│', frame)
		b.set(x+w-1, y, '│', frame)

		var line string
		st := styleFrame
		switch {
		case r == h-3 && h >= 5, r == h-2 && h < 5:
			line, _ = layout.TruncateText(item.Title, inner-2, text)
			st = styleTitle
		case r == h-2 && h >= 5:
			line, _ = layout.TruncateText(item.SubtitleText(), inner-2, text)
			st = styleSubtitle
		default:
			// artwork placeholder
			b.text(x+1, y, layout.PadRight(" "+strings.Repeat("░", max(inner-2, 0)), inner), styleFrame)
			continue
		}
		b.text(x+1, y, " "+layout.PadRight(line, inner-1), st)
	}
}

// renderCanvas paints the visible cards of the scatter layout at the
// current offset into a cols×rows block.
func (a App) renderCanvas(cols, rows int) string {
	buf := newCellBuffer(cols, rows)
	cfg := a.layoutConfig.Canvas
	params := a.session.Params()
	cw, ch := layout.CardCells(params.CardWidth, params.CardHeight, cfg)
	off := a.viewport.Offset()

	focused := a.focusedCard()
	var focusCard *model.PlacedCard
	cards := a.session.Cards()
	for _, c := range a.visibleCards() {
		if focused >= 0 && c.ID == cards[focused].ID {
			fc := c
			focusCard = &fc
			continue
		}
		a.paintCard(buf, c, off, cw, ch, false)
	}
	// The focused card is painted last so it sits on top.
	if focusCard != nil {
		a.paintCard(buf, *focusCard, off, cw, ch, true)
	}

	return buf.render(map[cellStyle]lipgloss.Style{
		styleFrame:    a.styles.Card,
		styleFocus:    a.styles.CardFocused,
		styleTitle:    a.styles.CardTitle,
		styleSubtitle: a.styles.CardSubtitle,
	})
}

func (a App) paintCard(buf *cellBuffer, c model.PlacedCard, off viewport.Point, cw, ch int, focused bool) {
	col, row := layout.UnitsToCells(c.X+off.X, c.Y+off.Y, a.layoutConfig.Canvas)
	shear := cardShear(c.Rotation, ch, a.layoutConfig.Canvas)
	drawCard(buf, col, row, cw, ch, shear, c.GalleryItem, focused, a.layoutConfig.Text)
}
