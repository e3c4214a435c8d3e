// Package render defines the rendering collaborator boundary. The
// controller commands the renderer (load, show, camera, rotation) and
// never queries it for business state. Scene-graph and GPU concerns live
// entirely on the other side of the Engine interface.
package render

import (
	"bytes"
	"fmt"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/models"
)

// Tuning is the flat, performant material profile applied to every loaded
// model: shadows off, uniform roughness/metalness, no detail maps.
type Tuning struct {
	CastShadow    bool    `json:"castShadow"`
	ReceiveShadow bool    `json:"receiveShadow"`
	Roughness     float64 `json:"roughness"`
	Metalness     float64 `json:"metalness"`
	DetailMaps    bool    `json:"detailMaps"`
}

// DefaultTuning is the profile every model is normalized to.
var DefaultTuning = Tuning{Roughness: 1, Metalness: 0}

// Engine is the rendering collaborator. Implementations own all scene
// resources; handles are opaque to the caller.
type Engine interface {
	// Load registers a model payload and returns its handle. The engine
	// applies DefaultTuning to the loaded scene.
	Load(project, file string, data []byte) (string, error)
	// ShowOnly makes exactly the given handle visible.
	ShowOnly(handle string)
	// SetCamera applies a camera policy (fit or fixed placement).
	SetCamera(policy models.CameraPolicy)
	// SetRotation applies a shared rotation angle, in radians, to every
	// loaded model uniformly.
	SetRotation(angle float64)
	// Reset discards every loaded handle (project switch).
	Reset()
}

// glbMagic is the four-byte header of a binary glTF container.
var glbMagic = []byte("glTF")

// checkGLB rejects payloads that cannot be a GLB container. Decoding is
// the renderer's job; this only sniffs the header.
func checkGLB(file string, data []byte) error {
	if len(data) < 12 || !bytes.HasPrefix(data, glbMagic) {
		return fmt.Errorf("%w: %s is not a GLB payload", apperr.ErrAssetLoad, file)
	}
	return nil
}
