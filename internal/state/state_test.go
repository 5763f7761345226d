package state

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gotest.tools/v3/assert"
)

func TestStore_DefaultsWithoutFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "state.json"))
	assert.Assert(t, !s.Hydrated())
	assert.NilError(t, s.Load())
	assert.Assert(t, s.Hydrated())

	snap := s.Snapshot()
	assert.Assert(t, snap.User == nil)
	assert.Equal(t, snap.UI.Theme, ThemeSystem)
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s := New(path)
	assert.NilError(t, s.Load())
	assert.NilError(t, s.SetUser(User{ID: "u1", Name: "Mira Sato", Role: "MEMBER"}))
	assert.NilError(t, s.SetTheme(ThemeDark))
	assert.NilError(t, s.SetMode("scatter"))

	reloaded := New(path)
	assert.NilError(t, reloaded.Load())

	u, ok := reloaded.CurrentUser()
	assert.Assert(t, ok)
	assert.Equal(t, u.Name, "Mira Sato")
	assert.Equal(t, reloaded.Snapshot().UI, UI{Theme: ThemeDark, Mode: "scatter"})
}

func TestStore_LogoutKeepsUIPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(path)
	assert.NilError(t, s.SetUser(User{ID: "u1", Name: "Mira"}))
	assert.NilError(t, s.SetTheme(ThemeLight))

	assert.NilError(t, s.Logout())
	_, ok := s.CurrentUser()
	assert.Assert(t, !ok)
	assert.Equal(t, s.Snapshot().UI.Theme, ThemeLight)

	reloaded := New(path)
	assert.NilError(t, reloaded.Load())
	_, ok = reloaded.CurrentUser()
	assert.Assert(t, !ok)
}

func TestStore_Merge(t *testing.T) {
	s := New("")

	u, ok, err := s.Merge(nil)
	assert.NilError(t, err)
	assert.Assert(t, !ok)
	assert.Equal(t, u, User{})

	live := &User{ID: "u2", Name: "Jonas"}
	u, ok, err = s.Merge(live)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, u.ID, "u2")

	// The persisted member wins over later live data.
	u, _, _ = s.Merge(&User{ID: "u3", Name: "Other"})
	assert.Equal(t, u.ID, "u2")
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	img := "https://img.example.com/me.png"
	s := New("")
	assert.NilError(t, s.SetUser(User{ID: "u1", Image: &img}))

	snap := s.Snapshot()
	snap.User.Name = "mutated"
	*snap.User.Image = "mutated"

	u, _ := s.CurrentUser()
	assert.Equal(t, u.Name, "")
	assert.Equal(t, *u.Image, img)
}

func TestStore_InvalidTheme(t *testing.T) {
	s := New("")
	assert.ErrorContains(t, s.SetTheme("neon"), "unknown theme")
	assert.Equal(t, s.Snapshot().UI.Theme, ThemeSystem)
}

func TestStore_LoadSanitizesTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	assert.NilError(t, os.WriteFile(path, []byte(`{"user":null,"ui":{"theme":"neon"}}`), 0644))

	s := New(path)
	assert.NilError(t, s.Load())
	assert.Equal(t, s.Snapshot().UI.Theme, ThemeSystem)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	assert.NilError(t, os.WriteFile(path, []byte("{"), 0644))

	assert.ErrorContains(t, New(path).Load(), "parse")
}

func TestStore_FailedSaveLeavesStateUnchanged(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	assert.NilError(t, os.WriteFile(blocker, nil, 0644))

	// The parent "directory" is a regular file, so MkdirAll fails.
	s := New(filepath.Join(blocker, "state.json"))
	assert.Assert(t, s.SetTheme(ThemeDark) != nil)
	assert.Equal(t, s.Snapshot().UI.Theme, ThemeSystem)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New("")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.SetTheme(ThemeDark)
			} else {
				_ = s.SetMode("grid")
			}
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, snap.UI.Theme, ThemeDark)
	assert.Equal(t, snap.UI.Mode, "grid")
}

func TestParseTheme(t *testing.T) {
	for _, ok := range []string{"system", "light", "dark"} {
		_, err := ParseTheme(ok)
		assert.NilError(t, err)
	}
	_, err := ParseTheme("")
	assert.Assert(t, err != nil)
}
