package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/tui/layout"
)

// StatusHint is shown next to the visible counter in scatter mode.
const StatusHint = "Drag to explore"

// renderView creates the complete screen for the current mode.
func (a App) renderView() string {
	var content string
	switch a.mode {
	case ModeLoading:
		content = a.renderCentered(a.styles.Empty.Render("Loading…"))
	case ModeError:
		content = a.renderCentered(a.renderError())
	case ModeLightbox:
		content = a.renderCentered(a.renderLightbox())
	default:
		content = a.renderBrowse()
	}

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, a.styles.App.Render(content))
}

// renderCentered places block in the middle of the screen above the hints.
func (a App) renderCentered(block string) string {
	body := lipgloss.Place(a.width, max(a.height-1, 1), lipgloss.Center, lipgloss.Center, block)
	if a.mode == ModeLightbox {
		return body + "\n" + a.renderMessageLine()
	}
	return body + "\n" + a.renderHints(a.getContextualHints())
}

func (a App) renderError() string {
	lines := []string{a.styles.Error.Render("✗ Failed to load paintings")}
	if a.err != nil {
		msg, _ := layout.TruncateText(a.err.Error(), max(a.width-4, 10), a.layoutConfig.Text)
		lines = append(lines, a.styles.Empty.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (a App) renderBrowse() string {
	cols, rows := a.canvasSize()

	var body string
	switch {
	case len(a.session.Items()) == 0:
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, a.styles.Empty.Render("No paintings yet"))
	case len(a.session.Filtered()) == 0:
		msg := fmt.Sprintf("No paintings match %q", a.session.Query())
		body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, a.styles.Empty.Render(msg))
	case a.session.Mode() == gallery.ModeGrid:
		body = a.renderGrid(cols, rows)
	default:
		body = a.renderCanvas(cols, rows)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		body,
		a.renderStatus(),
		a.renderMessageLine(),
		a.renderHints(a.getContextualHints()),
	)
}

// renderHeader renders the title, mode and filter line above the canvas.
func (a App) renderHeader() string {
	header := a.styles.Title.Render("Gallery") + a.styles.Header.Render(a.session.Mode().String())
	switch {
	case a.mode == ModeFilter:
		header += "  " + a.filter.Input.View()
	case a.session.Query() != "":
		header += a.styles.Header.Render("/" + a.session.Query())
	}
	return header
}

// renderStatus renders the visible counter line.
func (a App) renderStatus() string {
	if a.session.Mode() == gallery.ModeGrid {
		total, filtered := len(a.session.Items()), len(a.session.Filtered())
		if total == filtered {
			return a.styles.Status.Render(fmt.Sprintf("%d paintings", total))
		}
		return a.styles.Status.Render(fmt.Sprintf("%d of %d paintings", filtered, total))
	}
	status := a.session.Status(len(a.visibleCards()))
	return a.styles.Status.Render(status) + a.styles.Header.Render("· "+StatusHint)
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	if a.messageText == "" {
		return ""
	}

	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = a.styles.Error
		prefix = "✗ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = a.styles.Title
	}

	return " " + msgStyle.Render(prefix+a.messageText)
}

// renderGrid renders the filtered items as rows of tiles, scrolled so the
// selected tile stays on screen.
func (a App) renderGrid(cols, rows int) string {
	items := a.session.Filtered()
	perRow := a.gridColumns()
	tileW, _ := layout.CardCells(a.session.Params().CardWidth, a.session.Params().CardHeight, a.layoutConfig.Canvas)
	textW := max(tileW-4, 1) // border (2) + padding (2)
	gap := strings.Repeat(" ", a.layoutConfig.Grid.Gap)

	totalRows := (len(items) + perRow - 1) / perRow
	visibleRows := max(rows/a.layoutConfig.Grid.TileHeight, 1)
	first := layout.CalculateViewportOffset(a.gridCursor/perRow, totalRows, visibleRows)

	var lines []string
	for r := first; r < min(first+visibleRows, totalRows); r++ {
		var tiles []string
		for i := r * perRow; i < min((r+1)*perRow, len(items)); i++ {
			it := items[i]
			title, _ := layout.TruncateText(it.Title, textW, a.layoutConfig.Text)
			subtitle, _ := layout.TruncateText(it.SubtitleText(), textW, a.layoutConfig.Text)
			url := layout.TruncateMiddle(it.ImageURL, textW, a.layoutConfig.Text)

			style := a.styles.Tile
			if i == a.gridCursor {
				style = a.styles.TileSelected
			}
			tile := style.Width(tileW - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
				a.styles.CardTitle.Render(title),
				a.styles.CardSubtitle.Render(subtitle),
				a.styles.URL.Render(url),
			))
			if len(tiles) > 0 {
				tiles = append(tiles, gap)
			}
			tiles = append(tiles, tile)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}

	return lipgloss.NewStyle().Width(cols).Height(rows).MaxHeight(rows).Render(strings.Join(lines, "\n"))
}

// renderLightbox renders the open painting with its details.
func (a App) renderLightbox() string {
	item, ok := a.session.LightboxItem()
	if !ok {
		return ""
	}
	width := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal)
	textW := max(width-6, 1) // border (2) + padding (4)

	title, _ := layout.TruncateText(item.Title, textW, a.layoutConfig.Text)
	lines := []string{a.styles.Title.Render(title)}
	if sub := item.SubtitleText(); sub != "" {
		lines = append(lines, a.styles.CardSubtitle.Render(sub))
	}

	if p, ok := a.paintings[item.ID]; ok {
		if p.Description != nil && *p.Description != "" && *p.Description != item.SubtitleText() {
			lines = append(lines, "", lipgloss.NewStyle().Width(textW).Render(*p.Description))
		}
		if !p.CreatedAt.IsZero() {
			lines = append(lines, "", a.styles.Empty.Render("Added "+p.CreatedAt.Format("Jan 2, 2006")))
		}
	}

	lines = append(lines,
		"",
		a.styles.URL.Render(layout.TruncateMiddle(item.ImageURL, textW, a.layoutConfig.Text)),
		"",
		a.styles.Empty.Render(fmt.Sprintf("%d / %d", a.session.LightboxIndex()+1, len(a.session.Filtered()))),
		a.renderHintsInline(a.getLightboxHints()),
	)

	return a.styles.Lightbox.Width(width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
