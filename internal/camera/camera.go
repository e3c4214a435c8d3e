// Package camera resolves per-project camera placement. The policy is a
// configuration table entry, not an algorithm: most projects get a
// bounding-box-fitted default with full orbit control, while a fixed-mode
// project gets a parameterized placement, zoom only, with each parameter
// independently overridable through query values.
package camera

import (
	"net/url"
	"strconv"

	"github.com/starford/raidho/internal/models"
)

// Query parameter names for fixed-placement overrides.
const (
	ParamElevation = "elev"
	ParamAzimuth   = "azim"
	ParamDistance  = "dist"
	ParamRotationY = "roty"
	ParamTargetX   = "tx"
	ParamTargetY   = "ty"
	ParamTargetZ   = "tz"
)

// Resolve returns the effective camera policy for a project. Overrides
// are only meaningful for fixed-mode projects; fit-mode projects ignore
// them and keep the generic fitted default.
func Resolve(p models.Project, q url.Values) models.CameraPolicy {
	policy := p.Camera
	if policy.Mode == "" {
		policy.Mode = models.CameraFit
	}
	if policy.Mode != models.CameraFixed {
		return policy
	}

	override(q, ParamElevation, &policy.ElevationDeg)
	override(q, ParamAzimuth, &policy.AzimuthDeg)
	override(q, ParamDistance, &policy.DistanceFactor)
	override(q, ParamRotationY, &policy.RotationYDeg)
	override(q, ParamTargetX, &policy.TargetX)
	override(q, ParamTargetY, &policy.TargetY)
	override(q, ParamTargetZ, &policy.TargetZ)
	return policy
}

// override replaces *dst when the query carries a parseable float for
// name. Unparseable values leave the default untouched.
func override(q url.Values, name string, dst *float64) {
	raw := q.Get(name)
	if raw == "" {
		return
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*dst = v
	}
}
