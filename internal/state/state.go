// Package state is the application-state container: the signed-in member
// and UI preferences, hydrated from a JSON snapshot on start and written back
// on every change. It is passed explicitly to the pieces that need it.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Theme is the UI color preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme validates s.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want system, light or dark)", s)
}

// User is the persisted snapshot of the signed-in member.
type User struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
	Role  string  `json:"role,omitempty"` // MEMBER or ADMIN
}

// UI holds presentation preferences.
type UI struct {
	Theme Theme  `json:"theme"`
	Mode  string `json:"mode,omitempty"` // last gallery mode, "" = config default
}

// Snapshot is everything the container persists.
type Snapshot struct {
	User *User `json:"user"`
	UI   UI    `json:"ui"`
}

// Store holds the current snapshot. All mutations go through Update.
// It is safe for concurrent use.
type Store struct {
	path string

	mu       sync.RWMutex
	snap     Snapshot
	hydrated bool
}

// New returns an unhydrated store persisted at path. An empty path keeps
// the state in memory only.
func New(path string) *Store {
	return &Store{path: path, snap: defaults()}
}

func defaults() Snapshot {
	return Snapshot{UI: UI{Theme: ThemeSystem}}
}

// Load hydrates the store from disk. A missing file leaves the defaults.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	snap := defaults()
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	if _, err := ParseTheme(string(snap.UI.Theme)); err != nil {
		snap.UI.Theme = ThemeSystem
	}
	s.snap = snap
	return nil
}

// Hydrated reports whether Load has run.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snap)
}

// Update applies fn to a copy of the state, then persists and publishes it.
// Nothing changes when persisting fails.
func (s *Store) Update(fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.snap)
	fn(&next)
	if err := s.save(next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// CurrentUser returns the signed-in member, if any.
func (s *Store) CurrentUser() (User, bool) {
	snap := s.Snapshot()
	if snap.User == nil {
		return User{}, false
	}
	return *snap.User, true
}

// SetUser replaces the signed-in member.
func (s *Store) SetUser(u User) error {
	return s.Update(func(snap *Snapshot) { snap.User = &u })
}

// Merge combines the persisted member with live session data. A persisted
// member wins; otherwise the live one is adopted and persisted. Returns the
// effective member.
func (s *Store) Merge(live *User) (User, bool, error) {
	if u, ok := s.CurrentUser(); ok {
		return u, true, nil
	}
	if live == nil {
		return User{}, false, nil
	}
	if err := s.SetUser(*live); err != nil {
		return User{}, false, err
	}
	return *live, true, nil
}

// Logout clears the member and keeps UI preferences.
func (s *Store) Logout() error {
	return s.Update(func(snap *Snapshot) { snap.User = nil })
}

// SetTheme changes the color preference.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.Update(func(snap *Snapshot) { snap.UI.Theme = t })
}

// SetMode remembers the last gallery mode.
func (s *Store) SetMode(mode string) error {
	return s.Update(func(snap *Snapshot) { snap.UI.Mode = mode })
}

func (s *Store) save(snap Snapshot) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func clone(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		if u.Image != nil {
			img := *u.Image
			u.Image = &img
		}
		s.User = &u
	}
	return s
}
