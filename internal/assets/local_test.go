package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raidho/internal/apperr"
)

func tempAssets(t *testing.T) (*Local, string) {
	t.Helper()
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return l, dir
}

func writeProjectFile(t *testing.T, root, base, name string, content []byte) {
	t.Helper()
	dir := filepath.Join(root, base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocal_ManifestValid(t *testing.T) {
	l, root := tempAssets(t)
	writeProjectFile(t, root, "bsgs", ManifestName, []byte(`["a.glb","b.glb"]`))

	files, err := l.Manifest(context.Background(), "bsgs")
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if len(files) != 2 || files[0] != "a.glb" {
		t.Errorf("files = %v", files)
	}
}

func TestLocal_ManifestMissingEmptyInvalid(t *testing.T) {
	l, root := tempAssets(t)

	if _, err := l.Manifest(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrManifest) {
		t.Errorf("missing manifest err = %v, want ErrManifest", err)
	}

	writeProjectFile(t, root, "bsgs", ManifestName, []byte(`[]`))
	if _, err := l.Manifest(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrManifest) {
		t.Errorf("empty manifest err = %v, want ErrManifest", err)
	}

	writeProjectFile(t, root, "bsgs", ManifestName, []byte(`{"nope":true}`))
	if _, err := l.Manifest(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrManifest) {
		t.Errorf("invalid manifest err = %v, want ErrManifest", err)
	}
}

func TestLocal_ModelAndSchedule(t *testing.T) {
	l, root := tempAssets(t)
	writeProjectFile(t, root, "bsgs", "a.glb", []byte("glTF"))
	writeProjectFile(t, root, "bsgs", ScheduleName, []byte(`[{"member":"B-1"}]`))

	data, err := l.Model(context.Background(), "bsgs", "a.glb")
	if err != nil || string(data) != "glTF" {
		t.Fatalf("Model = %q, %v", data, err)
	}
	if _, err := l.Schedule(context.Background(), "bsgs"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
}

func TestLocal_MissingModelIsNotFound(t *testing.T) {
	l, _ := tempAssets(t)
	_, err := l.Model(context.Background(), "bsgs", "nope.glb")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLocal_RejectsTraversal(t *testing.T) {
	l, _ := tempAssets(t)
	if _, err := l.Model(context.Background(), "..", "etc/passwd"); err == nil {
		t.Error("expected traversal rejection")
	}
	if _, err := l.Model(context.Background(), "bsgs", "../../secret.glb"); err == nil {
		t.Error("expected traversal rejection")
	}
}
