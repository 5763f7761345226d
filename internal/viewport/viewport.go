// Package viewport tracks the pan offset over the scattered canvas: pointer
// drags, release inertia, clamping to the canvas plus overscroll, and the
// one-time centering on mount.
//
// The offset is the canvas translation. Panning right makes it larger, and a
// fully centered canvas has a negative offset of half the canvas minus half
// the viewport.
package viewport

import "math"

const (
	// Friction is applied to the velocity every tick while coasting.
	Friction = 0.92

	// RestThreshold is the per-axis speed below which coasting stops.
	RestThreshold = 0.3

	// DefaultOverscroll lets the canvas be dragged past its edges by this much.
	DefaultOverscroll = 400
)

// State is the interaction state of the controller.
type State int

const (
	Idle State = iota
	Dragging
	Coasting
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Coasting:
		return "coasting"
	default:
		return "idle"
	}
}

// Point is a position or displacement in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Controller owns the offset and velocity of one mounted gallery.
// It is not safe for concurrent use; the event loop serializes calls.
type Controller struct {
	canvas     float64
	overscroll float64

	width, height float64 // live viewport size, zero until known

	offset   Point
	velocity Point
	last     Point
	state    State
	centered bool
}

// New returns a controller for a square canvas of the given size.
func New(canvas, overscroll float64) *Controller {
	return &Controller{canvas: canvas, overscroll: overscroll}
}

// SetViewport records the live viewport size and re-clamps the offset
// against it.
func (c *Controller) SetViewport(width, height float64) {
	c.width = math.Max(0, width)
	c.height = math.Max(0, height)
	c.offset = c.Clamp(c.offset)
}

// Viewport returns the last recorded viewport size.
func (c *Controller) Viewport() (float64, float64) {
	return c.width, c.height
}

// HasGeometry reports whether the viewport size is known.
func (c *Controller) HasGeometry() bool {
	return c.width > 0 && c.height > 0
}

// Offset returns the current pan offset.
func (c *Controller) Offset() Point { return c.offset }

// Velocity returns the current velocity in units per tick.
func (c *Controller) Velocity() Point { return c.velocity }

// State returns the interaction state.
func (c *Controller) State() State { return c.state }

// Centered reports whether Center has run.
func (c *Controller) Centered() bool { return c.centered }

// Clamp bounds p to [-(canvas-viewport)-overscroll, overscroll] per axis.
// An unknown viewport dimension counts as zero.
func (c *Controller) Clamp(p Point) Point {
	return Point{
		X: clampAxis(p.X, c.canvas, c.width, c.overscroll),
		Y: clampAxis(p.Y, c.canvas, c.height, c.overscroll),
	}
}

func clampAxis(v, canvas, view, overscroll float64) float64 {
	hi := overscroll
	lo := -(canvas - view) - overscroll
	if lo > hi {
		lo = hi
	}
	return math.Min(hi, math.Max(lo, v))
}

// Center moves the viewport to the middle of the canvas. Only the first
// call has an effect; later calls keep whatever the user has panned to.
func (c *Controller) Center() {
	if c.centered {
		return
	}
	c.centered = true
	c.offset = c.Clamp(Point{
		X: -(c.canvas/2 - c.width/2),
		Y: -(c.canvas/2 - c.height/2),
	})
}

// Recenter forces a new centering regardless of earlier calls.
func (c *Controller) Recenter() {
	c.centered = false
	c.velocity = Point{}
	c.state = Idle
	c.Center()
}

// PointerDown starts a drag at p. Any inertia in flight is discarded.
func (c *Controller) PointerDown(p Point) {
	c.state = Dragging
	c.last = p
	c.velocity = Point{}
}

// PointerMove pans by the distance travelled since the last pointer event.
// It is ignored unless a drag is in progress.
func (c *Controller) PointerMove(p Point) {
	if c.state != Dragging {
		return
	}
	d := p.Sub(c.last)
	c.last = p
	c.velocity = d
	c.offset = c.Clamp(c.offset.Add(d))
}

// PointerUp ends the drag and lets the last velocity coast.
func (c *Controller) PointerUp() {
	if c.state != Dragging {
		return
	}
	c.release()
}

// PointerLeave behaves like PointerUp when the pointer exits the viewport.
func (c *Controller) PointerLeave() {
	c.PointerUp()
}

func (c *Controller) release() {
	if c.velocity == (Point{}) {
		c.state = Idle
		return
	}
	c.state = Coasting
}

// Flick nudges the offset by d and seeds the velocity with it, so keyboard
// panning coasts like a released drag. Ignored while dragging.
func (c *Controller) Flick(d Point) {
	if c.state == Dragging {
		return
	}
	c.velocity = d
	c.offset = c.Clamp(c.offset.Add(d))
	c.release()
}

// Tick advances inertia by one animation frame and reports whether the
// offset changed.
func (c *Controller) Tick() bool {
	if c.state == Dragging {
		return false
	}

	c.velocity.X *= Friction
	c.velocity.Y *= Friction
	if math.Abs(c.velocity.X) < RestThreshold && math.Abs(c.velocity.Y) < RestThreshold {
		c.velocity = Point{}
		c.state = Idle
		return false
	}

	before := c.offset
	c.offset = c.Clamp(c.offset.Add(c.velocity))
	return c.offset != before
}

// StepsToRest returns how many ticks an initial speed v needs before it
// falls under RestThreshold, ignoring clamping.
func StepsToRest(v float64) int {
	v = math.Abs(v)
	n := 0
	for {
		v *= Friction
		n++
		if v < RestThreshold {
			return n
		}
	}
}
