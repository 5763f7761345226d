package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Canvas CanvasConfig
	Chrome ChromeConfig
	Grid   GridConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
}

// CanvasConfig maps terminal cells onto canvas units.
type CanvasConfig struct {
	// CellWidth is how many canvas units one terminal column covers.
	CellWidth float64

	// CellHeight is how many canvas units one terminal row covers.
	// Terminal cells are roughly twice as tall as they are wide.
	CellHeight float64

	// KeyStep is the velocity one h/j/k/l press seeds, in units per frame.
	// Inertia carries the canvas about twelve times that far.
	KeyStep float64

	// WheelStep is the velocity one mouse wheel notch seeds.
	WheelStep float64

	// ClickSlop is the pointer travel, in units, under which a
	// press and release count as a click rather than a drag.
	ClickSlop float64
}

// ChromeConfig holds the lines reserved around the canvas.
type ChromeConfig struct {
	// HeaderLines is the title/filter line above the canvas.
	HeaderLines int

	// FooterLines accounts for: status (1) + message (1) + hints (1) = 3
	FooterLines int

	// MinCanvasRows is the minimum canvas height.
	MinCanvasRows int
}

// GridConfig holds grid mode tile configuration.
type GridConfig struct {
	// TileHeight: border (2) + title (1) + subtitle (1) + url (1) = 5
	TileHeight int

	// Gap is the number of blank columns between tiles.
	Gap int
}

// ModalConfig holds lightbox configuration.
type ModalConfig struct {
	// WidthPercent is the lightbox width as percentage of terminal width.
	WidthPercent int

	// MinWidth is the minimum lightbox width in characters.
	MinWidth int

	// MaxWidth is the maximum lightbox width in characters.
	MaxWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	FilterCharLimit int
	FilterWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Canvas: CanvasConfig{
			CellWidth:  20,
			CellHeight: 40,
			KeyStep:    12,
			WheelStep:  8,
			ClickSlop:  20,
		},
		Chrome: ChromeConfig{
			HeaderLines:   1,
			FooterLines:   3, // status (1) + message (1) + hints (1)
			MinCanvasRows: 3,
		},
		Grid: GridConfig{
			TileHeight: 5,
			Gap:        1,
		},
		Modal: ModalConfig{
			WidthPercent: 60,
			MinWidth:     40,
			MaxWidth:     100,
		},
		Input: InputConfig{
			FilterCharLimit: 50,
			FilterWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
