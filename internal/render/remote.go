package render

import (
	"fmt"

	"github.com/starford/raidho/internal/models"
)

// Command is one render instruction for the browser client.
type Command struct {
	// Op is one of "load", "show", "camera", "rotation", "reset".
	Op string `json:"op"`
	// Handle identifies the target scene for load/show.
	Handle string `json:"handle,omitempty"`
	// URL is where the client fetches the payload for a load op.
	URL    string              `json:"url,omitempty"`
	Tuning *Tuning             `json:"tuning,omitempty"`
	Camera *models.CameraPolicy `json:"camera,omitempty"`
	Angle  float64             `json:"angle,omitempty"`
}

// Publisher delivers render commands to the client, typically over SSE.
type Publisher func(Command)

// Remote implements Engine by broadcasting commands to a browser client
// that performs the actual rendering. The server keeps only the handle
// set; payload bytes are served separately through the asset passthrough.
type Remote struct {
	publish Publisher
	handles map[string]struct{}
}

// NewRemote creates a Remote engine publishing through publish.
func NewRemote(publish Publisher) *Remote {
	return &Remote{
		publish: publish,
		handles: make(map[string]struct{}),
	}
}

// Load validates the payload header, registers a handle, and instructs
// the client to fetch and instantiate the model with the flat material
// profile applied.
func (r *Remote) Load(project, file string, data []byte) (string, error) {
	if err := checkGLB(file, data); err != nil {
		return "", err
	}
	handle := fmt.Sprintf("%s/%s", project, file)
	r.handles[handle] = struct{}{}
	tuning := DefaultTuning
	r.publish(Command{
		Op:     "load",
		Handle: handle,
		URL:    fmt.Sprintf("/assets/%s/%s", project, file),
		Tuning: &tuning,
	})
	return handle, nil
}

// ShowOnly makes exactly one handle visible on the client.
func (r *Remote) ShowOnly(handle string) {
	r.publish(Command{Op: "show", Handle: handle})
}

// SetCamera forwards a camera policy to the client.
func (r *Remote) SetCamera(policy models.CameraPolicy) {
	p := policy
	r.publish(Command{Op: "camera", Camera: &p})
}

// SetRotation forwards the shared rotation angle. The client applies it
// to every instantiated model, not just the visible one.
func (r *Remote) SetRotation(angle float64) {
	r.publish(Command{Op: "rotation", Angle: angle})
}

// Reset drops all handles and tells the client to clear its scene.
func (r *Remote) Reset() {
	r.handles = make(map[string]struct{})
	r.publish(Command{Op: "reset"})
}
