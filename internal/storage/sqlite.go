package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/gallery/internal/model"
)

const currentSchemaVersion = 2

// SQLiteStorage implements Storage using a SQLite database.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage creates a new SQLiteStorage with the given database path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStorage{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied schema version.
func (s *SQLiteStorage) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

func (s *SQLiteStorage) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < currentSchemaVersion {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStorage) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS paintings (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			image_url TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_paintings_image_url ON paintings(image_url);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 stores the embedded artist so the gallery can show names offline.
func (s *SQLiteStorage) migrateV2() error {
	migration := `
		ALTER TABLE paintings ADD COLUMN user_name TEXT;
		ALTER TABLE paintings ADD COLUMN user_image TEXT;
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// Load reads the catalog from the SQLite database in saved order.
func (s *SQLiteStorage) Load() (*model.Catalog, error) {
	catalog := model.NewCatalog()

	rows, err := s.db.Query(`
		SELECT id, title, description, image_url, user_id, created_at, updated_at, user_name, user_image
		FROM paintings
		ORDER BY position, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Painting
		var description, userName, userImage sql.NullString
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&p.ID, &p.Title, &description, &p.ImageURL, &p.UserID,
			&createdAtStr, &updatedAtStr, &userName, &userImage,
		); err != nil {
			return nil, err
		}

		if description.Valid {
			p.Description = &description.String
		}
		if userName.Valid {
			p.User = &model.UserSummary{ID: p.UserID, Name: userName.String}
			if userImage.Valid {
				p.User.Image = &userImage.String
			}
		}

		p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAtStr)

		catalog.Paintings = append(catalog.Paintings, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return catalog, nil
}

// Save writes the catalog to the SQLite database.
// Uses a transaction for atomicity - all or nothing.
func (s *SQLiteStorage) Save(catalog *model.Catalog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM paintings"); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO paintings (id, title, description, image_url, user_id, created_at, updated_at, position, user_name, user_image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range catalog.Paintings {
		var userName, userImage *string
		if p.User != nil {
			userName = &p.User.Name
			userImage = p.User.Image
		}

		if _, err := stmt.Exec(
			p.ID, p.Title, p.Description, p.ImageURL, p.UserID,
			p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano),
			i, userName, userImage,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
