package importer_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/gallery/internal/exporter"
	"github.com/nikbrunner/gallery/internal/importer"
	"github.com/nikbrunner/gallery/internal/model"
)

func TestParseHTML_StandaloneImages(t *testing.T) {
	html := `<html><body>
<img src="https://img.example.com/harbor.jpg" alt="Harbor at Dusk">
<img src="https://img.example.com/still_life-02.png">
<img src="https://img.example.com/orchard.jpg" title="Orchard in May">
<img src="data:image/png;base64,AAAA" alt="inline">
<img alt="no source">
</body></html>`

	paintings, err := importer.ParseHTMLPaintings(strings.NewReader(html), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(paintings) != 3 {
		t.Fatalf("expected 3 paintings, got %d", len(paintings))
	}

	want := []string{"Harbor at Dusk", "still life 02", "Orchard in May"}
	for i, title := range want {
		if paintings[i].Title != title {
			t.Errorf("painting %d: expected title %q, got %q", i, title, paintings[i].Title)
		}
		if paintings[i].ID == "" {
			t.Errorf("painting %d: expected generated ID", i)
		}
	}
	if paintings[2].Description != nil {
		t.Error("title attribute used as title should not repeat as description")
	}
}

func TestParseHTML_Figures(t *testing.T) {
	html := `<figure data-id="p7" data-created="2024-05-01T09:30:00Z">
  <img src="/media/harbor.jpg" alt="ignored" title="Oil on canvas">
  <figcaption><strong>Harbor at Dusk</strong><span>Mira Sato</span></figcaption>
</figure>
<figure>
  <img src="dunes.jpg">
  <figcaption>  Dune
     Study </figcaption>
</figure>`

	base, _ := url.Parse("https://club.example.com/gallery/")
	paintings, err := importer.ParseHTMLPaintings(strings.NewReader(html), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paintings) != 2 {
		t.Fatalf("expected 2 paintings, got %d", len(paintings))
	}

	p := paintings[0]
	if p.ID != "p7" {
		t.Errorf("expected ID from data-id, got %q", p.ID)
	}
	if p.Title != "Harbor at Dusk" {
		t.Errorf("expected caption title, got %q", p.Title)
	}
	if p.Artist() != "Mira Sato" {
		t.Errorf("expected artist from caption span, got %q", p.Artist())
	}
	if p.ImageURL != "https://club.example.com/media/harbor.jpg" {
		t.Errorf("expected resolved URL, got %q", p.ImageURL)
	}
	if p.Description == nil || *p.Description != "Oil on canvas" {
		t.Errorf("expected description from image title, got %v", p.Description)
	}
	if !p.CreatedAt.Equal(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("expected creation time from data-created, got %v", p.CreatedAt)
	}

	if paintings[1].Title != "Dune Study" {
		t.Errorf("expected whitespace-collapsed caption, got %q", paintings[1].Title)
	}
	if paintings[1].ImageURL != "https://club.example.com/gallery/dunes.jpg" {
		t.Errorf("expected resolved relative URL, got %q", paintings[1].ImageURL)
	}
}

func TestParseHTML_DuplicateSources(t *testing.T) {
	html := `<img src="https://img.example.com/a.jpg" alt="First">
<figure><img src="https://img.example.com/a.jpg"><figcaption>Again</figcaption></figure>`

	paintings, err := importer.ParseHTMLPaintings(strings.NewReader(html), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paintings) != 1 {
		t.Fatalf("expected 1 painting, got %d", len(paintings))
	}
	if paintings[0].Title != "First" {
		t.Errorf("expected first occurrence to win, got %q", paintings[0].Title)
	}
}

func TestParseHTML_Empty(t *testing.T) {
	paintings, err := importer.ParseHTMLPaintings(strings.NewReader(""), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paintings) != 0 {
		t.Errorf("expected 0 paintings, got %d", len(paintings))
	}
}

func TestParseHTML_ExportRoundtrip(t *testing.T) {
	desc := "Gouache"
	original := model.NewCatalog()
	original.AddPainting(model.Painting{
		ID:          "p1",
		Title:       "Harbor & Boats",
		Description: &desc,
		ImageURL:    "https://res.cloudinary.com/club/image/upload/v1/harbor.jpg",
		CreatedAt:   time.Unix(1700000000, 0).UTC(),
		User:        &model.UserSummary{ID: "u1", Name: "Mira Sato"},
	})
	original.AddPainting(model.Painting{
		ID:       "p2",
		Title:    "Still Life",
		ImageURL: "https://img.example.com/still.jpg",
	})

	for _, scatter := range []bool{false, true} {
		html := exporter.ExportHTML(original, exporter.Options{Scatter: scatter})
		paintings, err := importer.ParseHTMLPaintings(strings.NewReader(html), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(paintings) != 2 {
			t.Fatalf("scatter=%v: expected 2 paintings, got %d", scatter, len(paintings))
		}

		for i, p := range paintings {
			o := original.Paintings[i]
			if p.ID != o.ID || p.Title != o.Title || p.ImageURL != o.ImageURL || p.Artist() != o.Artist() {
				t.Errorf("scatter=%v: painting %d mismatch: got %+v", scatter, i, p)
			}
		}
		if !paintings[0].CreatedAt.Equal(original.Paintings[0].CreatedAt) {
			t.Errorf("scatter=%v: creation time lost", scatter)
		}
		if paintings[0].Description == nil || *paintings[0].Description != desc {
			t.Errorf("scatter=%v: description lost", scatter)
		}
	}
}
