package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/raidho/internal/apperr"
)

func remoteOrigin(t *testing.T, files map[string]string) *Remote {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewRemote(srv.URL, srv.Client())
}

func TestRemote_Manifest(t *testing.T) {
	r := remoteOrigin(t, map[string]string{
		"/bsgs/manifest.json": `["a.glb","b.glb","c.glb"]`,
	})
	files, err := r.Manifest(context.Background(), "bsgs")
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if len(files) != 3 || files[2] != "c.glb" {
		t.Errorf("files = %v", files)
	}
}

func TestRemote_ManifestUnreachableAndNonSuccess(t *testing.T) {
	r := remoteOrigin(t, nil)
	if _, err := r.Manifest(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrManifest) {
		t.Errorf("404 manifest err = %v, want ErrManifest", err)
	}

	dead := NewRemote("http://127.0.0.1:0", nil)
	if _, err := dead.Manifest(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrManifest) {
		t.Errorf("unreachable manifest err = %v, want ErrManifest", err)
	}
}

func TestRemote_ScheduleNotFoundIsScheduleError(t *testing.T) {
	r := remoteOrigin(t, nil)
	if _, err := r.Schedule(context.Background(), "bsgs"); !errors.Is(err, apperr.ErrSchedule) {
		t.Errorf("err = %v, want ErrSchedule", err)
	}
}

func TestRemote_Model(t *testing.T) {
	r := remoteOrigin(t, map[string]string{"/bsgs/a.glb": "glTF"})
	data, err := r.Model(context.Background(), "bsgs", "a.glb")
	if err != nil || string(data) != "glTF" {
		t.Fatalf("Model = %q, %v", data, err)
	}
	if _, err := r.Model(context.Background(), "bsgs", "b.glb"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing model err = %v, want ErrNotFound", err)
	}
}
