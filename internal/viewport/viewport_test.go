package viewport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func newMounted() *Controller {
	c := New(4000, DefaultOverscroll)
	c.SetViewport(800, 600)
	return c
}

func TestClamp(t *testing.T) {
	c := newMounted()

	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"inside", Point{-1000, -1000}, Point{-1000, -1000}},
		{"past max", Point{1000, 900}, Point{400, 400}},
		{"past min", Point{-10000, -10000}, Point{-3600, -3800}},
		{"mixed", Point{500, -1}, Point{400, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Clamp(tt.in)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Clamp(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestClamp_Idempotent(t *testing.T) {
	c := newMounted()
	for _, p := range []Point{{5000, -5000}, {-3599, 12}, {0, 0}, {400.5, -3800.5}} {
		once := c.Clamp(p)
		assert.Equal(t, c.Clamp(once), once)
	}
}

func TestClamp_UnknownGeometry(t *testing.T) {
	c := New(4000, DefaultOverscroll)
	assert.Assert(t, !c.HasGeometry())
	assert.Equal(t, c.Clamp(Point{-5000, 1000}), Point{-4400, 400})
}

func TestClamp_CanvasSmallerThanViewport(t *testing.T) {
	c := New(100, DefaultOverscroll)
	c.SetViewport(800, 600)
	got := c.Clamp(Point{-1000, 1000})
	assert.Equal(t, got, Point{300, 400})
}

func TestCenter(t *testing.T) {
	c := newMounted()
	c.Center()
	assert.Equal(t, c.Offset(), Point{-1600, -1700})
	assert.Assert(t, c.Centered())

	c.PointerDown(Point{0, 0})
	c.PointerMove(Point{50, 25})
	c.PointerUp()
	c.Center()
	assert.Equal(t, c.Offset(), Point{-1550, -1675})

	c.Recenter()
	assert.Equal(t, c.Offset(), Point{-1600, -1700})
	assert.Equal(t, c.State(), Idle)
}

func TestDrag(t *testing.T) {
	c := newMounted()
	c.Center()

	c.PointerDown(Point{100, 100})
	assert.Equal(t, c.State(), Dragging)

	c.PointerMove(Point{130, 90})
	assert.Equal(t, c.Offset(), Point{-1570, -1710})
	assert.Equal(t, c.Velocity(), Point{30, -10})

	// No inertia while the pointer is held.
	assert.Assert(t, !c.Tick())
	assert.Equal(t, c.Offset(), Point{-1570, -1710})

	c.PointerUp()
	assert.Equal(t, c.State(), Coasting)

	assert.Assert(t, c.Tick())
	want := Point{-1570 + 30*Friction, -1710 - 10*Friction}
	if diff := cmp.Diff(want, c.Offset(), approx); diff != "" {
		t.Errorf("offset after one tick (-want +got):\n%s", diff)
	}
}

func TestPointerMove_IgnoredWhenNotDragging(t *testing.T) {
	c := newMounted()
	c.PointerMove(Point{300, 300})
	assert.Equal(t, c.Offset(), Point{})
	assert.Equal(t, c.State(), Idle)
}

func TestPointerUp_WithoutMovementIsIdle(t *testing.T) {
	c := newMounted()
	c.PointerDown(Point{10, 10})
	c.PointerUp()
	assert.Equal(t, c.State(), Idle)
}

func TestPointerLeave_EndsDrag(t *testing.T) {
	c := newMounted()
	c.PointerDown(Point{10, 10})
	c.PointerMove(Point{20, 10})
	c.PointerLeave()
	assert.Equal(t, c.State(), Coasting)
}

func TestInertia_Converges(t *testing.T) {
	c := newMounted()
	c.Center()
	c.PointerDown(Point{0, 0})
	c.PointerMove(Point{30, -10})
	c.PointerUp()

	n := StepsToRest(30)
	for i := 0; i < n-1; i++ {
		c.Tick()
	}
	assert.Equal(t, c.State(), Coasting)

	c.Tick()
	assert.Equal(t, c.State(), Idle)
	assert.Equal(t, c.Velocity(), Point{})

	rest := c.Offset()
	assert.Assert(t, !c.Tick())
	assert.Equal(t, c.Offset(), rest)
}

func TestPointerDown_DiscardsInertia(t *testing.T) {
	c := newMounted()
	c.Center()
	c.PointerDown(Point{0, 0})
	c.PointerMove(Point{40, 40})
	c.PointerUp()
	c.Tick()

	c.PointerDown(Point{5, 5})
	assert.Equal(t, c.State(), Dragging)
	assert.Equal(t, c.Velocity(), Point{})

	before := c.Offset()
	c.Tick()
	assert.Equal(t, c.Offset(), before)
}

func TestInertia_StaysClamped(t *testing.T) {
	c := newMounted()
	c.PointerDown(Point{0, 0})
	c.PointerMove(Point{300, 300})
	c.PointerUp()

	for i := 0; i < 200; i++ {
		c.Tick()
		o := c.Offset()
		assert.Assert(t, o.X <= DefaultOverscroll && o.Y <= DefaultOverscroll, "offset %v", o)
	}
	assert.Equal(t, c.Offset(), Point{400, 400})
}

func TestFlick(t *testing.T) {
	c := newMounted()
	c.Center()
	c.Flick(Point{-40, 0})
	assert.Equal(t, c.Offset(), Point{-1640, -1700})
	assert.Equal(t, c.State(), Coasting)

	c.PointerDown(Point{0, 0})
	c.Flick(Point{-40, 0})
	assert.Equal(t, c.Offset(), Point{-1640, -1700})
}

func TestSetViewport_Reclamps(t *testing.T) {
	c := New(4000, DefaultOverscroll)
	c.PointerDown(Point{0, 0})
	c.PointerMove(Point{-4400, 0})
	assert.Equal(t, c.Offset().X, -4400.0)

	c.SetViewport(1000, 1000)
	assert.Equal(t, c.Offset().X, -3400.0)
}

func TestStepsToRest(t *testing.T) {
	assert.Equal(t, StepsToRest(0), 1)
	assert.Equal(t, StepsToRest(0.3), 1)
	assert.Equal(t, StepsToRest(30), 56)
}
