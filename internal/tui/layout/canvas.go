package layout

import "math"

// CalculateCanvasSize returns the terminal area left for the canvas once
// the header and footer lines are taken. Rows are at least MinCanvasRows.
func CalculateCanvasSize(terminalWidth, terminalHeight int, cfg ChromeConfig) (cols, rows int) {
	cols = max(terminalWidth, 0)
	rows = terminalHeight - cfg.HeaderLines - cfg.FooterLines
	if rows < cfg.MinCanvasRows {
		rows = cfg.MinCanvasRows
	}
	return cols, rows
}

// CellsToUnits converts a cell position within the canvas area to canvas
// units relative to the canvas area's top-left corner.
func CellsToUnits(col, row int, cfg CanvasConfig) (x, y float64) {
	return float64(col) * cfg.CellWidth, float64(row) * cfg.CellHeight
}

// UnitsToCells converts screen-space units to the cell containing them.
func UnitsToCells(x, y float64, cfg CanvasConfig) (col, row int) {
	return int(math.Floor(x / cfg.CellWidth)), int(math.Floor(y / cfg.CellHeight))
}

// CardCells returns the number of cells a cardWidth×cardHeight card spans,
// rounded to the nearest cell and never smaller than 3×3 so a border and
// one line of text always fit.
func CardCells(cardWidth, cardHeight float64, cfg CanvasConfig) (cols, rows int) {
	cols = int(math.Round(cardWidth / cfg.CellWidth))
	rows = int(math.Round(cardHeight / cfg.CellHeight))
	return max(cols, 3), max(rows, 3)
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
