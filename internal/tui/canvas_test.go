package tui

import (
	"strings"
	"testing"

	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/tui/layout"
)

func TestCellBuffer_ClipsOutside(t *testing.T) {
	b := newCellBuffer(4, 2)
	b.set(-1, 0, 'x', styleFrame)
	b.set(4, 0, 'x', styleFrame)
	b.set(0, 2, 'x', styleFrame)
	b.text(2, 1, "abcdef", styleTitle)

	got := b.render(nil)
	want := "    \n  ab"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestCardShear(t *testing.T) {
	cfg := layout.DefaultConfig().Canvas

	flat := cardShear(0, 9, cfg)
	for r, s := range flat {
		if s != 0 {
			t.Errorf("row %d: unrotated card shifted by %d", r, s)
		}
	}

	tilted := cardShear(5, 9, cfg)
	if tilted[4] != 0 {
		t.Errorf("middle row should not move, got %d", tilted[4])
	}
	if tilted[0] <= 0 || tilted[8] >= 0 {
		t.Errorf("clockwise tilt should push the top right and the bottom left, got %v", tilted)
	}
	if tilted[0] != -tilted[8] {
		t.Errorf("shear should be symmetric, got %v", tilted)
	}
}

func TestDrawCard(t *testing.T) {
	subtitle := "Mira Sato"
	item := model.GalleryItem{ID: "p1", Title: "Harbor at Dusk", Subtitle: &subtitle}
	b := newCellBuffer(13, 9)

	drawCard(b, 0, 0, 13, 9, make([]int, 9), item, false, layout.DefaultConfig().Text)

	lines := strings.Split(b.render(nil), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "╭") || !strings.HasSuffix(lines[0], "╮") {
		t.Errorf("top border = %q", lines[0])
	}
	if !strings.HasPrefix(lines[8], "╰") || !strings.HasSuffix(lines[8], "╯") {
		t.Errorf("bottom border = %q", lines[8])
	}
	if !strings.Contains(lines[1], "░") {
		t.Errorf("expected artwork placeholder, got %q", lines[1])
	}
	if !strings.Contains(lines[6], "Harbor") {
		t.Errorf("expected title on row 6, got %q", lines[6])
	}
	if !strings.Contains(lines[7], "Mira Sato") {
		t.Errorf("expected subtitle on row 7, got %q", lines[7])
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 13 {
			t.Errorf("row %d: %d cells, want 13", i, n)
		}
	}
}

func TestDrawCard_Focused(t *testing.T) {
	b := newCellBuffer(5, 5)
	drawCard(b, 0, 0, 5, 5, make([]int, 5), model.GalleryItem{Title: "A"}, true, layout.DefaultConfig().Text)

	if b.styles[0] != styleFocus {
		t.Errorf("focused frame style = %d, want %d", b.styles[0], styleFocus)
	}
}
