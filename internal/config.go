package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/normalize"
	"github.com/starford/raidho/internal/viewer"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Asset provider modes.
const (
	AssetsModeLocal  = "local"
	AssetsModeRemote = "remote"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Assets   AssetsConfig      `yaml:"assets"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
	Viewer   ViewerConfig      `yaml:"viewer"`
	Projects []ProjectConfig   `yaml:"projects"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Assets.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Viewer.Validate(); err != nil {
		return err
	}
	if len(c.Projects) == 0 {
		return fmt.Errorf("projects: at least one project must be configured")
	}
	seen := make(map[string]bool, len(c.Projects))
	for i := range c.Projects {
		p := &c.Projects[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("projects[%d]: %w", i, err)
		}
		if seen[p.Code] {
			return fmt.Errorf("projects[%d]: duplicate code %q", i, p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}

// ProjectList converts the configured projects to their domain form. The
// first entry is the default project.
func (c *Config) ProjectList() []models.Project {
	out := make([]models.Project, len(c.Projects))
	for i, p := range c.Projects {
		out[i] = p.Project()
	}
	return out
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// AssetsConfig selects where model files, manifests, and schedules come
// from.
//
// Mode controls the provider:
//   - "local" (default): files are read from Dir on disk.
//   - "remote": files are fetched over HTTP from BaseURL.
type AssetsConfig struct {
	Mode    string `yaml:"mode"`
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

// Validate validates the assets configuration.
func (c *AssetsConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AssetsModeLocal
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AssetsModeLocal, AssetsModeRemote)),
	); err != nil {
		return err
	}
	if c.Mode == AssetsModeLocal && c.Dir == "" {
		return fmt.Errorf("assets: mode is %q but dir is empty", AssetsModeLocal)
	}
	if c.Mode == AssetsModeRemote && c.BaseURL == "" {
		return fmt.Errorf("assets: mode is %q but base_url is empty", AssetsModeRemote)
	}
	return nil
}

// SQLiteConfig holds SQLite database configuration for the schedule
// event index.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// ViewerConfig tunes navigation behaviour. Intervals are in
// milliseconds; zero values fall back to the controller defaults.
type ViewerConfig struct {
	AutoplayIntervalMS int     `yaml:"autoplay_interval_ms"`
	RotateTickMS       int     `yaml:"rotate_tick_ms"`
	RotateSpeed        float64 `yaml:"rotate_speed"`
	// NormalizePrefix is the site-specific filename prefix stripped
	// during key normalization. Empty means the built-in default.
	NormalizePrefix string `yaml:"normalize_prefix"`
}

// Validate validates the viewer configuration.
func (c *ViewerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AutoplayIntervalMS, validation.Min(0)),
		validation.Field(&c.RotateTickMS, validation.Min(0)),
	)
}

// Options converts the configuration to controller options.
func (c *ViewerConfig) Options() viewer.Options {
	return viewer.Options{
		AutoplayInterval: time.Duration(c.AutoplayIntervalMS) * time.Millisecond,
		RotateTick:       time.Duration(c.RotateTickMS) * time.Millisecond,
		RotateSpeed:      c.RotateSpeed,
	}
}

// Normalizer builds the filename normalizer from the configured prefix.
func (c *ViewerConfig) Normalizer() normalize.Normalizer {
	return normalize.New(c.NormalizePrefix)
}

// ProjectConfig describes one construction project.
type ProjectConfig struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	// Path is the project directory under the assets root (or URL base).
	Path   string       `yaml:"path"`
	Camera CameraConfig `yaml:"camera"`
}

// Validate validates the project configuration.
func (c *ProjectConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Code, validation.Required),
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	return c.Camera.Validate()
}

// Project converts the configuration to its domain form.
func (c *ProjectConfig) Project() models.Project {
	name := c.Name
	if name == "" {
		name = c.Code
	}
	return models.Project{
		Code:        c.Code,
		DisplayName: name,
		BasePath:    c.Path,
		Camera:      c.Camera.Policy(),
	}
}

// CameraConfig holds the per-project camera policy.
//
// Mode selects the behaviour:
//   - "fit" (default): frame the whole model, orbit controls enabled.
//   - "fixed": place the camera at the configured spherical position.
type CameraConfig struct {
	Mode           string  `yaml:"mode"`
	ElevationDeg   float64 `yaml:"elevation_deg"`
	AzimuthDeg     float64 `yaml:"azimuth_deg"`
	DistanceFactor float64 `yaml:"distance_factor"`
	RotationYDeg   float64 `yaml:"rotation_y_deg"`
	TargetX        float64 `yaml:"target_x"`
	TargetY        float64 `yaml:"target_y"`
	TargetZ        float64 `yaml:"target_z"`
}

// Validate validates the camera configuration.
func (c *CameraConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = string(models.CameraFit)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required,
			validation.In(string(models.CameraFit), string(models.CameraFixed))),
	)
}

// Policy converts the configuration to its domain form.
func (c *CameraConfig) Policy() models.CameraPolicy {
	mode := models.CameraMode(c.Mode)
	if mode == "" {
		mode = models.CameraFit
	}
	return models.CameraPolicy{
		Mode:           mode,
		ElevationDeg:   c.ElevationDeg,
		AzimuthDeg:     c.AzimuthDeg,
		DistanceFactor: c.DistanceFactor,
		RotationYDeg:   c.RotationYDeg,
		TargetX:        c.TargetX,
		TargetY:        c.TargetY,
		TargetZ:        c.TargetZ,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Assets: AssetsConfig{
			Mode: AssetsModeLocal,
			Dir:  "./assets",
		},
		SQLite: SQLiteConfig{
			Path: "./raidho.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Viewer: ViewerConfig{
			AutoplayIntervalMS: 2000,
			RotateTickMS:       50,
			RotateSpeed:        0.5,
		},
		Projects: []ProjectConfig{
			{Code: "bsgs", Name: "BSGS Plant", Path: "bsgs"},
		},
	}
}
