package render

import (
	"errors"
	"testing"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/models"
)

func glb() []byte {
	return []byte("glTF\x02\x00\x00\x00\x0c\x00\x00\x00")
}

func TestRemote_LoadPublishesCommand(t *testing.T) {
	var cmds []Command
	r := NewRemote(func(c Command) { cmds = append(cmds, c) })

	handle, err := r.Load("bsgs", "a.glb", glb())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if handle != "bsgs/a.glb" {
		t.Errorf("handle = %q", handle)
	}
	if len(cmds) != 1 || cmds[0].Op != "load" || cmds[0].URL != "/assets/bsgs/a.glb" {
		t.Fatalf("cmds = %+v", cmds)
	}
	if cmds[0].Tuning == nil || cmds[0].Tuning.Roughness != 1 || cmds[0].Tuning.CastShadow {
		t.Errorf("tuning = %+v, want flat profile", cmds[0].Tuning)
	}
}

func TestRemote_LoadRejectsNonGLB(t *testing.T) {
	r := NewRemote(func(Command) { t.Error("no command expected") })
	_, err := r.Load("bsgs", "bad.glb", []byte("<html>denied</html>"))
	if !errors.Is(err, apperr.ErrAssetLoad) {
		t.Errorf("err = %v, want ErrAssetLoad", err)
	}
	_, err = r.Load("bsgs", "short.glb", []byte("glTF"))
	if !errors.Is(err, apperr.ErrAssetLoad) {
		t.Errorf("short payload err = %v, want ErrAssetLoad", err)
	}
}

func TestRemote_ShowCameraRotationReset(t *testing.T) {
	var cmds []Command
	r := NewRemote(func(c Command) { cmds = append(cmds, c) })

	r.ShowOnly("bsgs/a.glb")
	r.SetCamera(models.CameraPolicy{Mode: models.CameraFixed, ElevationDeg: 30})
	r.SetRotation(1.5)
	r.Reset()

	if len(cmds) != 4 {
		t.Fatalf("len(cmds) = %d", len(cmds))
	}
	if cmds[0].Op != "show" || cmds[0].Handle != "bsgs/a.glb" {
		t.Errorf("show = %+v", cmds[0])
	}
	if cmds[1].Op != "camera" || cmds[1].Camera.ElevationDeg != 30 {
		t.Errorf("camera = %+v", cmds[1])
	}
	if cmds[2].Op != "rotation" || cmds[2].Angle != 1.5 {
		t.Errorf("rotation = %+v", cmds[2])
	}
	if cmds[3].Op != "reset" {
		t.Errorf("reset = %+v", cmds[3])
	}
}
