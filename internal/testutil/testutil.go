// Package testutil provides shared test helpers: temp databases, local
// asset fixtures, and a scripted render engine.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/raidho/internal/assets"
	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/models"
)

// GLB returns a minimal payload that passes the renderer's header check.
func GLB() []byte {
	return []byte("glTF\x02\x00\x00\x00\x0c\x00\x00\x00")
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raidho-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// LocalAssets creates a temp assets directory holding the given files
// under base and returns a Local provider over it. Keys of files are
// filenames relative to the project directory.
func LocalAssets(t *testing.T, base string, files map[string][]byte) *assets.Local {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l, err := assets.NewLocal(root)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// FakeEngine is a scripted render.Engine recording every command.
type FakeEngine struct {
	mu sync.Mutex

	// FailFiles lists filenames whose Load should be rejected.
	FailFiles map[string]bool

	loaded   []string
	visible  string
	camera   models.CameraPolicy
	angle    float64
	resets   int
}

// NewFakeEngine creates an empty FakeEngine.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{FailFiles: make(map[string]bool)}
}

// Load registers a handle, or fails for filenames listed in FailFiles.
func (f *FakeEngine) Load(project, file string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailFiles[file] {
		return "", os.ErrInvalid
	}
	handle := project + "/" + file
	f.loaded = append(f.loaded, handle)
	return handle, nil
}

// ShowOnly records the visible handle.
func (f *FakeEngine) ShowOnly(handle string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = handle
}

// SetCamera records the applied policy.
func (f *FakeEngine) SetCamera(policy models.CameraPolicy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.camera = policy
}

// SetRotation records the shared angle.
func (f *FakeEngine) SetRotation(angle float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.angle = angle
}

// Reset clears the loaded set.
func (f *FakeEngine) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = nil
	f.visible = ""
	f.resets++
}

// Visible returns the currently shown handle.
func (f *FakeEngine) Visible() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Loaded returns the loaded handles in order.
func (f *FakeEngine) Loaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loaded...)
}

// Camera returns the last applied camera policy.
func (f *FakeEngine) Camera() models.CameraPolicy {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.camera
}

// Angle returns the last applied rotation angle.
func (f *FakeEngine) Angle() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.angle
}

// Resets returns how many times the scene was cleared.
func (f *FakeEngine) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}
