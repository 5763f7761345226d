package model_test

import (
	"testing"
	"time"

	"github.com/nikbrunner/gallery/internal/model"
)

// Helper functions for pointers
func stringPtr(s string) *string { return &s }

func TestPainting_Item_Subtitle(t *testing.T) {
	tests := []struct {
		name     string
		painting model.Painting
		want     string
	}{
		{
			name: "artist name wins",
			painting: model.Painting{
				ID:          "p1",
				Title:       "Harbor at Dusk",
				Description: stringPtr("Oil on canvas"),
				User:        &model.UserSummary{ID: "u1", Name: "Mira Sato"},
			},
			want: "Mira Sato",
		},
		{
			name: "description fallback",
			painting: model.Painting{
				ID:          "p2",
				Title:       "Still Life",
				Description: stringPtr("Gouache"),
			},
			want: "Gouache",
		},
		{
			name:     "no subtitle",
			painting: model.Painting{ID: "p3", Title: "Untitled"},
			want:     "",
		},
		{
			name: "empty description is ignored",
			painting: model.Painting{
				ID:          "p4",
				Title:       "Blank",
				Description: stringPtr(""),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.painting.Item()
			if item.ID != tt.painting.ID {
				t.Errorf("ID mismatch: got %q, want %q", item.ID, tt.painting.ID)
			}
			if got := item.SubtitleText(); got != tt.want {
				t.Errorf("subtitle: got %q, want %q", got, tt.want)
			}
			if tt.want == "" && item.Subtitle != nil {
				t.Error("expected nil subtitle")
			}
		})
	}
}

func TestNewPainting(t *testing.T) {
	p := model.NewPainting(model.NewPaintingParams{
		Title:    "Field Study",
		ImageURL: "https://img.example.com/field.jpg",
		UserID:   "u1",
	})

	if p.ID == "" {
		t.Error("expected generated ID")
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Errorf("expected matching timestamps, got %v / %v", p.CreatedAt, p.UpdatedAt)
	}

	other := model.NewPainting(model.NewPaintingParams{Title: "Other"})
	if other.ID == p.ID {
		t.Error("expected unique IDs")
	}
}

func TestCatalog_GetPaintingByID(t *testing.T) {
	c := model.Catalog{
		Paintings: []model.Painting{
			{ID: "p1", Title: "First"},
			{ID: "p2", Title: "Second"},
		},
	}

	p := c.GetPaintingByID("p2")
	if p == nil {
		t.Fatal("expected to find painting p2")
	}
	if p.Title != "Second" {
		t.Errorf("expected title 'Second', got %q", p.Title)
	}

	if c.GetPaintingByID("missing") != nil {
		t.Error("expected nil for missing painting")
	}
}

func TestCatalog_Upsert(t *testing.T) {
	c := model.NewCatalog()

	if replaced := c.Upsert(model.Painting{ID: "p1", Title: "Draft"}); replaced {
		t.Error("first upsert should append")
	}
	if replaced := c.Upsert(model.Painting{ID: "p1", Title: "Final"}); !replaced {
		t.Error("second upsert should replace")
	}

	if len(c.Paintings) != 1 {
		t.Fatalf("expected 1 painting, got %d", len(c.Paintings))
	}
	if c.Paintings[0].Title != "Final" {
		t.Errorf("expected replaced title, got %q", c.Paintings[0].Title)
	}
}

func TestCatalog_RemovePainting(t *testing.T) {
	c := model.Catalog{
		Paintings: []model.Painting{
			{ID: "p1"}, {ID: "p2"}, {ID: "p3"},
		},
	}

	if err := c.RemovePainting("p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Paintings) != 2 || c.Paintings[0].ID != "p1" || c.Paintings[1].ID != "p3" {
		t.Errorf("unexpected catalog after removal: %+v", c.Paintings)
	}

	if err := c.RemovePainting("p2"); err == nil {
		t.Error("expected error removing missing painting")
	}
}

func TestCatalog_ImportMerge_SkipsDuplicateImages(t *testing.T) {
	c := model.Catalog{
		Paintings: []model.Painting{
			{ID: "existing", Title: "Existing", ImageURL: "https://img.example.com/a.jpg"},
		},
	}

	added, skipped := c.ImportMerge([]model.Painting{
		{ID: "new1", Title: "Duplicate", ImageURL: "https://img.example.com/a.jpg"},
		{ID: "new2", Title: "Fresh", ImageURL: "https://img.example.com/b.jpg"},
	})

	if added != 1 {
		t.Errorf("expected 1 added, got %d", added)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
	if len(c.Paintings) != 2 {
		t.Errorf("expected 2 paintings, got %d", len(c.Paintings))
	}
}

func TestCatalog_ReplaceCopies(t *testing.T) {
	src := []model.Painting{{ID: "p1", CreatedAt: time.Now()}}
	c := model.NewCatalog()
	c.Replace(src)

	src[0].ID = "mutated"
	if c.Paintings[0].ID != "p1" {
		t.Error("Replace should copy the input slice")
	}
}

func TestCatalog_ItemsPreserveOrder(t *testing.T) {
	c := model.Catalog{
		Paintings: []model.Painting{
			{ID: "p3"}, {ID: "p1"}, {ID: "p2"},
		},
	}

	items := c.Items()
	want := []string{"p3", "p1", "p2"}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, items[i].ID, id)
		}
	}
}
