package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/tui/layout"
	"github.com/nikbrunner/gallery/internal/viewport"
)

// Mode is the screen the App is showing.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeBrowse
	ModeFilter
	ModeLightbox
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	case ModeFilter:
		return "filter"
	case ModeLightbox:
		return "lightbox"
	default:
		return "browse"
	}
}

// MessageType selects the styling of the transient message line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageError
)

// FrameInterval is the animation tick period, roughly one display frame.
const FrameInterval = 16 * time.Millisecond

// MessageTimeout is how long a transient message stays on screen.
const MessageTimeout = 3 * time.Second

// frameMsg drives inertia, one per FrameInterval.
type frameMsg time.Time

// paintingsMsg carries the result of a load.
type paintingsMsg struct {
	paintings []model.Painting
	err       error
}

// clearMessageMsg hides the message set at seq, unless a newer one replaced it.
type clearMessageMsg struct{ seq int }

// FilterState holds the filter input and the query to restore on cancel.
type FilterState struct {
	Input    textinput.Model
	Previous string
}

// NewFilterState creates a FilterState with an initialized input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "Filter by title or artist..."
	input.Prompt = "/"
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return FilterState{Input: input}
}

// PointerState tracks one mouse press for click detection.
type PointerState struct {
	Down     bool
	Start    viewport.Point
	Traveled float64 // largest distance from Start seen during the press
}

// Reset forgets the current press.
func (p *PointerState) Reset() {
	*p = PointerState{}
}
