package storage_test

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/gallery/internal/exporter"
	"github.com/nikbrunner/gallery/internal/importer"
	"github.com/nikbrunner/gallery/internal/model"
	"github.com/nikbrunner/gallery/internal/storage"
)

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "paintings.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	now := time.Now().UTC()
	desc := "Oil on canvas"
	image := "https://img.example.com/mira.png"
	catalog := &model.Catalog{
		Paintings: []model.Painting{
			{
				ID:          "p1",
				Title:       "Harbor",
				Description: &desc,
				ImageURL:    "https://img.example.com/harbor.jpg",
				UserID:      "u1",
				CreatedAt:   now,
				UpdatedAt:   now,
				User:        &model.UserSummary{ID: "u1", Name: "Mira Sato", Image: &image},
			},
		},
	}

	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if len(loaded.Paintings) != 1 {
		t.Fatalf("expected 1 painting, got %d", len(loaded.Paintings))
	}
	p := loaded.Paintings[0]
	if p.Description == nil || *p.Description != desc {
		t.Errorf("expected description %q, got %v", desc, p.Description)
	}
	if p.User == nil || p.User.Name != "Mira Sato" || p.User.Image == nil || *p.User.Image != image {
		t.Errorf("expected embedded user to round trip, got %+v", p.User)
	}
	if !p.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, p.CreatedAt)
	}
}

func TestSQLiteStorage_EmptyDatabase(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	catalog, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(catalog.Paintings) != 0 {
		t.Errorf("expected 0 paintings, got %d", len(catalog.Paintings))
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "paintings.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage in nested directory: %v", err)
	}
	defer s.Close()

	if s.Path() != dbPath {
		t.Errorf("expected path %q, got %q", dbPath, s.Path())
	}
}

func TestSQLiteStorage_NullableFields(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "nullable.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	catalog := &model.Catalog{
		Paintings: []model.Painting{{ID: "p1", Title: "Untitled", ImageURL: "https://img.example.com/u.jpg"}},
	}
	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Paintings[0].Description != nil {
		t.Error("expected nil description")
	}
	if loaded.Paintings[0].User != nil {
		t.Error("expected nil user")
	}
}

func TestSQLiteStorage_PreservesOrderAndReplaces(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "order.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	// Newer first: save order must win over created_at.
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &model.Catalog{Paintings: []model.Painting{
		{ID: "b", Title: "B", CreatedAt: recent},
		{ID: "a", Title: "A", CreatedAt: old},
	}}
	if err := s.Save(first); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, _ := s.Load()
	if loaded.Paintings[0].ID != "b" || loaded.Paintings[1].ID != "a" {
		t.Errorf("expected saved order b, a; got %s, %s", loaded.Paintings[0].ID, loaded.Paintings[1].ID)
	}

	if err := s.Save(&model.Catalog{Paintings: []model.Painting{{ID: "c", Title: "C"}}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, _ = s.Load()
	if len(loaded.Paintings) != 1 || loaded.Paintings[0].ID != "c" {
		t.Errorf("expected save to replace contents, got %+v", loaded.Paintings)
	}
}

func TestSQLiteStorage_TransactionRollback(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "rollback.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if err := s.Save(&model.Catalog{Paintings: []model.Painting{{ID: "p1", Title: "Keep"}}}); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	// Duplicate primary keys abort the transaction.
	dup := &model.Catalog{Paintings: []model.Painting{{ID: "x", Title: "One"}, {ID: "x", Title: "Two"}}}
	if err := s.Save(dup); err == nil {
		t.Fatal("expected error saving duplicate IDs")
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Paintings) != 1 || loaded.Paintings[0].Title != "Keep" {
		t.Errorf("expected previous contents after rollback, got %+v", loaded.Paintings)
	}
}

func TestSQLiteStorage_MigratesV1(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "v1.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		CREATE TABLE schema_version (version INTEGER PRIMARY KEY);
		CREATE TABLE paintings (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			image_url TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);
		INSERT INTO schema_version (version) VALUES (1);
		INSERT INTO paintings (id, title, image_url, created_at, updated_at)
		VALUES ('p1', 'Legacy', 'https://img.example.com/l.jpg', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z');
	`)
	db.Close()
	if err != nil {
		t.Fatalf("failed to seed v1 schema: %v", err)
	}

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to open v1 database: %v", err)
	}
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil || version != 2 {
		t.Errorf("expected schema version 2, got %d (%v)", version, err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(loaded.Paintings) != 1 || loaded.Paintings[0].Title != "Legacy" {
		t.Errorf("expected legacy row to survive migration, got %+v", loaded.Paintings)
	}
}

// Integration tests for import/export with SQLite storage

func TestSQLiteStorage_ImportExportRoundtrip(t *testing.T) {
	s, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "roundtrip.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	page := `<html><body>
<figure><img src="https://img.example.com/harbor.jpg"><figcaption><strong>Harbor</strong><span>Mira Sato</span></figcaption></figure>
<figure><img src="https://img.example.com/dunes.jpg"><figcaption><strong>Dunes</strong></figcaption></figure>
</body></html>`

	paintings, err := importer.ParseHTMLPaintings(strings.NewReader(page), nil)
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}

	catalog := model.NewCatalog()
	added, skipped := catalog.ImportMerge(paintings)
	if added != 2 || skipped != 0 {
		t.Errorf("expected 2 added 0 skipped, got %d/%d", added, skipped)
	}

	if err := s.Save(catalog); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	html := exporter.ExportHTML(loaded, exporter.Options{})
	for _, want := range []string{"<strong>Harbor</strong><span>Mira Sato</span>", "<strong>Dunes</strong>", "https://img.example.com/dunes.jpg"} {
		if !strings.Contains(html, want) {
			t.Errorf("export missing %q", want)
		}
	}

	// Importing the same page again adds nothing.
	again, _ := importer.ParseHTMLPaintings(strings.NewReader(page), nil)
	added, skipped = loaded.ImportMerge(again)
	if added != 0 || skipped != 2 {
		t.Errorf("expected 0 added 2 skipped on re-import, got %d/%d", added, skipped)
	}
}
