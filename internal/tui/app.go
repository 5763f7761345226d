package tui

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nikbrunner/gallery/internal/gallery"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/scatter"
	"github.com/nikbrunner/gallery/internal/state"
	"github.com/nikbrunner/gallery/internal/tui/layout"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// App is the main bubbletea model for the gallery.
type App struct {
	ctx      context.Context
	source   gallery.Source
	session  *gallery.Session
	viewport *viewport.Controller
	prefs    *state.Store
	logger   *log.Logger

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	mode       Mode
	err        error
	paintings  map[string]model.Painting
	filter     FilterState
	pointer    PointerState
	gridCursor int
	autoCenter bool

	// Transient message line
	messageText string
	messageType MessageType
	messageSeq  int

	copyToClipboard func(string) error
	openURL         func(string) error

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	// Source loads the paintings on Init and on reload. When nil the App
	// starts with Paintings and never loads.
	Source    gallery.Source
	Paintings []model.Painting

	Params     scatter.Params // zero uses scatter.DefaultParams
	Overscroll float64
	Mode       gallery.Mode
	AutoCenter bool

	Prefs   *state.Store // optional, remembers the mode on toggle
	Logger  *log.Logger  // optional
	Context context.Context

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	Clipboard func(string) error // optional, defaults to the system clipboard
	OpenURL   func(string) error // optional, defaults to a no-op
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	sp := params.Params
	if sp.Size <= 0 {
		sp = scatter.DefaultParams()
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := params.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	openFn := params.OpenURL
	if openFn == nil {
		openFn = func(string) error { return nil }
	}

	app := App{
		ctx:             ctx,
		source:          params.Source,
		session:         gallery.NewSession(nil, sp, params.Mode),
		viewport:        viewport.New(sp.Size, params.Overscroll),
		prefs:           params.Prefs,
		logger:          logger,
		keys:            keys,
		styles:          styles,
		layoutConfig:    layoutCfg,
		mode:            ModeLoading,
		filter:          NewFilterState(layoutCfg),
		autoCenter:      params.AutoCenter,
		copyToClipboard: copyFn,
		openURL:         openFn,
	}

	if params.Source == nil {
		app.setPaintings(params.Paintings)
	}
	app.resize()
	return app
}

// WithDimensions returns a copy of the app laid out for a width×height
// terminal, as if a tea.WindowSizeMsg had arrived.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	a.resize()
	return a
}

// Mode returns the current screen.
func (a App) Mode() Mode { return a.mode }

// Session returns the gallery session backing the app.
func (a App) Session() *gallery.Session { return a.session }

// Viewport returns the pan controller.
func (a App) Viewport() *viewport.Controller { return a.viewport }

// Err returns the last load error.
func (a App) Err() error { return a.err }

// GridCursor returns the selected tile in grid mode.
func (a App) GridCursor() int { return a.gridCursor }

// Message returns the transient message text.
func (a App) Message() string { return a.messageText }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.source == nil {
		return frame()
	}
	return tea.Batch(a.load(), frame())
}

func frame() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a App) load() tea.Cmd {
	src, ctx := a.source, a.ctx
	return func() tea.Msg {
		paintings, err := src.Paintings(ctx)
		return paintingsMsg{paintings: paintings, err: err}
	}
}

func (a *App) setPaintings(paintings []model.Painting) {
	a.paintings = make(map[string]model.Painting, len(paintings))
	for _, p := range paintings {
		a.paintings[p.ID] = p
	}
	a.session.SetItems(model.Items(paintings))
	a.gridCursor = 0
	a.err = nil
	a.mode = ModeBrowse
}

// canvasSize returns the canvas area in cells.
func (a App) canvasSize() (cols, rows int) {
	return layout.CalculateCanvasSize(a.width, a.height, a.layoutConfig.Chrome)
}

func (a *App) resize() {
	cols, rows := a.canvasSize()
	w, h := layout.CellsToUnits(cols, rows, a.layoutConfig.Canvas)
	a.viewport.SetViewport(w, h)
	if a.autoCenter && a.viewport.HasGeometry() {
		a.viewport.Center()
	}
}

// screenPoint converts a terminal cell to viewport-space units. ok is false
// outside the canvas area.
func (a App) screenPoint(col, row int) (viewport.Point, bool) {
	cols, rows := a.canvasSize()
	row -= a.layoutConfig.Chrome.HeaderLines
	x, y := layout.CellsToUnits(col, row, a.layoutConfig.Canvas)
	inside := col >= 0 && col < cols && row >= 0 && row < rows
	return viewport.Point{X: x, Y: y}, inside
}

// visibleCards returns the culled cards for the live viewport.
func (a App) visibleCards() []model.PlacedCard {
	w, h := a.viewport.Viewport()
	return a.session.Visible(a.viewport.Offset(), w, h)
}

// cardAt returns the index of the topmost card under a viewport-space point.
func (a App) cardAt(p viewport.Point) int {
	off := a.viewport.Offset()
	cx, cy := p.X-off.X, p.Y-off.Y
	params := a.session.Params()
	cards := a.session.Cards()
	for i := len(cards) - 1; i >= 0; i-- {
		c := cards[i]
		if cx >= c.X && cx < c.X+params.CardWidth && cy >= c.Y && cy < c.Y+params.CardHeight {
			return i
		}
	}
	return -1
}

// focusedCard returns the index of the card whose center is closest to the
// middle of the viewport, or -1 without cards.
func (a App) focusedCard() int {
	w, h := a.viewport.Viewport()
	off := a.viewport.Offset()
	mx, my := -off.X+w/2, -off.Y+h/2
	params := a.session.Params()

	best, bestDist := -1, math.Inf(1)
	for i, c := range a.session.Cards() {
		dx := c.X + params.CardWidth/2 - mx
		dy := c.Y + params.CardHeight/2 - my
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// gridColumns returns the number of tiles per grid row.
func (a App) gridColumns() int {
	cols, _ := a.canvasSize()
	tileW, _ := layout.CardCells(a.session.Params().CardWidth, a.session.Params().CardHeight, a.layoutConfig.Canvas)
	return gallery.GridColumns(float64(cols), float64(tileW+a.layoutConfig.Grid.Gap))
}

func (a *App) setMessage(text string, typ MessageType) tea.Cmd {
	a.messageSeq++
	a.messageText = text
	a.messageType = typ
	seq := a.messageSeq
	return tea.Tick(MessageTimeout, func(time.Time) tea.Msg { return clearMessageMsg{seq: seq} })
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case frameMsg:
		a.viewport.Tick()
		return a, frame()

	case paintingsMsg:
		if msg.err != nil {
			a.logger.Error("failed to load paintings", "err", msg.err)
			a.err = msg.err
			a.mode = ModeError
			return a, nil
		}
		a.logger.Debug("paintings loaded", "count", len(msg.paintings))
		a.setPaintings(msg.paintings)
		return a, nil

	case clearMessageMsg:
		if msg.seq == a.messageSeq {
			a.messageText = ""
		}
		return a, nil

	case tea.BlurMsg:
		a.viewport.PointerLeave()
		a.pointer.Reset()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeFilter:
		return a.handleFilterKey(msg)
	case ModeLightbox:
		return a.handleLightboxKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Reload):
		if a.source == nil || a.mode == ModeLoading {
			return a, nil
		}
		a.mode = ModeLoading
		return a, a.load()
	}

	if a.mode != ModeBrowse {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.filter.Previous = a.session.Query()
		a.filter.Input.SetValue(a.session.Query())
		a.filter.Input.CursorEnd()
		return a, a.filter.Input.Focus()

	case key.Matches(msg, a.keys.ToggleMode):
		mode := a.session.ToggleMode()
		a.pointer.Reset()
		if a.prefs != nil {
			if err := a.prefs.SetMode(mode.String()); err != nil {
				a.logger.Warn("could not save mode", "err", err)
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Open):
		idx := a.focusedCard()
		if a.session.Mode() == gallery.ModeGrid {
			idx = a.gridCursor
		}
		if a.session.OpenLightbox(idx) {
			a.mode = ModeLightbox
		}
		return a, nil

	case key.Matches(msg, a.keys.Close):
		if a.session.Query() != "" {
			a.session.SetQuery("")
			a.gridCursor = 0
		}
		return a, nil
	}

	if a.session.Mode() == gallery.ModeGrid {
		return a.handleGridKey(msg)
	}
	return a.handleScatterKey(msg)
}

func (a App) handleScatterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := a.layoutConfig.Canvas.KeyStep
	switch {
	case key.Matches(msg, a.keys.Recenter):
		a.viewport.Recenter()
	case key.Matches(msg, a.keys.Left):
		a.viewport.Flick(viewport.Point{X: step})
	case key.Matches(msg, a.keys.Right):
		a.viewport.Flick(viewport.Point{X: -step})
	case key.Matches(msg, a.keys.Up):
		a.viewport.Flick(viewport.Point{Y: step})
	case key.Matches(msg, a.keys.Down):
		a.viewport.Flick(viewport.Point{Y: -step})
	}
	return a, nil
}

func (a App) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(a.session.Filtered())
	if n == 0 {
		return a, nil
	}
	cols := a.gridColumns()
	switch {
	case key.Matches(msg, a.keys.Left):
		a.gridCursor = max(a.gridCursor-1, 0)
	case key.Matches(msg, a.keys.Right):
		a.gridCursor = min(a.gridCursor+1, n-1)
	case key.Matches(msg, a.keys.Up):
		if a.gridCursor-cols >= 0 {
			a.gridCursor -= cols
		}
	case key.Matches(msg, a.keys.Down):
		if a.gridCursor+cols < n {
			a.gridCursor += cols
		}
	case key.Matches(msg, a.keys.Recenter):
		a.gridCursor = 0
	}
	return a, nil
}

func (a App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.session.SetQuery(a.filter.Previous)
		a.filter.Input.Blur()
		a.mode = ModeBrowse
		a.gridCursor = 0
		return a, nil
	case tea.KeyEnter:
		a.filter.Input.Blur()
		a.mode = ModeBrowse
		return a, nil
	case tea.KeyCtrlC:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	if a.filter.Input.Value() != a.session.Query() {
		a.session.SetQuery(a.filter.Input.Value())
		a.gridCursor = 0
	}
	return a, cmd
}

func (a App) handleLightboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch {
	case key.Matches(msg, a.keys.Close), key.Matches(msg, a.keys.Quit):
		a.gridCursor = max(a.session.LightboxIndex(), 0)
		a.session.CloseLightbox()
		a.mode = ModeBrowse
	case key.Matches(msg, a.keys.Left):
		a.session.PrevImage()
	case key.Matches(msg, a.keys.Right):
		a.session.NextImage()
	case key.Matches(msg, a.keys.YankURL):
		item, _ := a.session.LightboxItem()
		if err := a.copyToClipboard(item.ImageURL); err != nil {
			return a, a.setMessage("Copy failed: "+err.Error(), MessageError)
		}
		return a, a.setMessage("Copied image URL", MessageSuccess)
	case key.Matches(msg, a.keys.OpenBrowser):
		item, _ := a.session.LightboxItem()
		if err := a.openURL(item.ImageURL); err != nil {
			return a, a.setMessage("Could not open browser: "+err.Error(), MessageError)
		}
		return a, a.setMessage("Opened in browser", MessageInfo)
	}

	if idx := a.session.LightboxIndex(); idx >= 0 {
		a.gridCursor = idx
	}
	return a, nil
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.mode != ModeBrowse && a.mode != ModeFilter {
		return a, nil
	}
	if a.session.Mode() == gallery.ModeGrid {
		return a.handleGridMouse(msg)
	}

	p, inside := a.screenPoint(msg.X, msg.Y)
	cfg := a.layoutConfig.Canvas

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if !inside {
				return a, nil
			}
			a.viewport.PointerDown(p)
			a.pointer = PointerState{Down: true, Start: p}
		case tea.MouseButtonWheelUp:
			a.viewport.Flick(viewport.Point{Y: cfg.WheelStep})
		case tea.MouseButtonWheelDown:
			a.viewport.Flick(viewport.Point{Y: -cfg.WheelStep})
		case tea.MouseButtonWheelLeft:
			a.viewport.Flick(viewport.Point{X: cfg.WheelStep})
		case tea.MouseButtonWheelRight:
			a.viewport.Flick(viewport.Point{X: -cfg.WheelStep})
		}

	case tea.MouseActionMotion:
		if !a.pointer.Down {
			return a, nil
		}
		if !inside {
			a.viewport.PointerLeave()
			a.pointer.Reset()
			return a, nil
		}
		a.viewport.PointerMove(p)
		d := p.Sub(a.pointer.Start)
		a.pointer.Traveled = math.Max(a.pointer.Traveled, math.Hypot(d.X, d.Y))

	case tea.MouseActionRelease:
		if !a.pointer.Down {
			return a, nil
		}
		a.viewport.PointerUp()
		click := a.pointer.Traveled < cfg.ClickSlop
		a.pointer.Reset()
		if click && inside && a.mode == ModeBrowse {
			if a.session.OpenLightbox(a.cardAt(p)) {
				a.mode = ModeLightbox
			}
		}
	}
	return a, nil
}

func (a App) handleGridMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return a, nil
	}
	n := len(a.session.Filtered())
	if n == 0 {
		return a, nil
	}
	cols := a.gridColumns()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.gridCursor-cols >= 0 {
			a.gridCursor -= cols
		}
	case tea.MouseButtonWheelDown:
		if a.gridCursor+cols < n {
			a.gridCursor += cols
		}
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
