package viewer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/plus3/rtsviewer/input"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/rtscamera"
	"github.com/plus3/rtsviewer/transform"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigFormat is returned by LoadConfig for extensions other than
// .yaml, .yml and .toml.
var ErrUnknownConfigFormat = errors.New("unknown config format")

// Config is everything the viewer reads at startup.
type Config struct {
	AssetRoot string `yaml:"asset_root" toml:"asset_root"`
	// Scene is the file the scene and its animation clip load from.
	Scene          string `yaml:"scene" toml:"scene"`
	SceneLabel     string `yaml:"scene_label" toml:"scene_label"`
	AnimationLabel string `yaml:"animation_label" toml:"animation_label"`
	// Animate builds the animation graph and attaches it to new players.
	Animate bool `yaml:"animate" toml:"animate"`

	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Controls ControlsConfig `yaml:"controls" toml:"controls"`
	Light    LightConfig    `yaml:"light" toml:"light"`
	Window   WindowConfig   `yaml:"window" toml:"window"`

	TickRate  int  `yaml:"tick_rate" toml:"tick_rate"`
	HotReload bool `yaml:"hot_reload" toml:"hot_reload"`
	Debug     bool `yaml:"debug" toml:"debug"`
}

type CameraConfig struct {
	BoundsCenter   [2]float32 `yaml:"bounds_center" toml:"bounds_center"`
	BoundsHalfSize [2]float32 `yaml:"bounds_half_size" toml:"bounds_half_size"`
	MinAngleDeg    float32    `yaml:"min_angle_deg" toml:"min_angle_deg"`
	HeightMin      float32    `yaml:"height_min" toml:"height_min"`
	HeightMax      float32    `yaml:"height_max" toml:"height_max"`
	Smoothness     float32    `yaml:"smoothness" toml:"smoothness"`
}

type ControlsConfig struct {
	KeyUp           input.KeyCode `yaml:"key_up" toml:"key_up"`
	KeyDown         input.KeyCode `yaml:"key_down" toml:"key_down"`
	KeyLeft         input.KeyCode `yaml:"key_left" toml:"key_left"`
	KeyRight        input.KeyCode `yaml:"key_right" toml:"key_right"`
	EdgePanWidth    float32       `yaml:"edge_pan_width" toml:"edge_pan_width"`
	PanSpeed        float32       `yaml:"pan_speed" toml:"pan_speed"`
	ZoomSensitivity float32       `yaml:"zoom_sensitivity" toml:"zoom_sensitivity"`
}

type LightConfig struct {
	Name        string  `yaml:"name" toml:"name"`
	Illuminance float32 `yaml:"illuminance" toml:"illuminance"`
	Shadows     bool    `yaml:"shadows" toml:"shadows"`
	// Euler angles in degrees, applied yaw, pitch, roll.
	YawDeg   float32 `yaml:"yaw_deg" toml:"yaw_deg"`
	PitchDeg float32 `yaml:"pitch_deg" toml:"pitch_deg"`
	RollDeg  float32 `yaml:"roll_deg" toml:"roll_deg"`
}

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// DefaultConfig returns the built-in viewer setup.
func DefaultConfig() Config {
	defaults := rtscamera.DefaultRtsCamera()
	return Config{
		AssetRoot:      "assets",
		Scene:          "cube.gltf",
		SceneLabel:     "Scene0",
		AnimationLabel: "Animation0",
		Animate:        true,
		Camera: CameraConfig{
			BoundsCenter:   [2]float32{0, 0},
			BoundsHalfSize: [2]float32{1000, 1000},
			MinAngleDeg:    60,
			HeightMin:      defaults.HeightMin,
			HeightMax:      50,
			Smoothness:     defaults.Smoothness,
		},
		Controls: ControlsConfig{
			KeyUp:           input.KeyW,
			KeyDown:         input.KeyS,
			KeyLeft:         input.KeyA,
			KeyRight:        input.KeyD,
			EdgePanWidth:    0.01,
			PanSpeed:        165,
			ZoomSensitivity: 0.2,
		},
		Light: LightConfig{
			Name:        "Light",
			Illuminance: 1000,
			Shadows:     true,
			YawDeg:      150,
			PitchDeg:    -40,
			RollDeg:     0,
		},
		Window: WindowConfig{
			Title:  "rtsviewer",
			Width:  1280,
			Height: 720,
		},
		TickRate: 60,
	}
}

// LoadConfig reads path over DefaultConfig. Keys missing from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("%s: %w %q", path, ErrUnknownConfigFormat, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return errors.New("config: scene is empty")
	case c.TickRate <= 0:
		return fmt.Errorf("config: tick_rate %d must be positive", c.TickRate)
	case c.Camera.HeightMax <= 0 || c.Camera.HeightMin > c.Camera.HeightMax:
		return fmt.Errorf("config: camera heights %g..%g are invalid", c.Camera.HeightMin, c.Camera.HeightMax)
	case c.Camera.MinAngleDeg <= 0 || c.Camera.MinAngleDeg > 90:
		return fmt.Errorf("config: camera min_angle_deg %g must be in (0, 90]", c.Camera.MinAngleDeg)
	case c.Controls.EdgePanWidth < 0 || c.Controls.EdgePanWidth >= 0.5:
		return fmt.Errorf("config: controls edge_pan_width %g must be in [0, 0.5)", c.Controls.EdgePanWidth)
	}
	return nil
}

// ScenePath is the asset path of the scene to instance.
func (c Config) ScenePath() string {
	return c.Scene + "#" + c.SceneLabel
}

// AnimationPath is the asset path of the clip to loop.
func (c Config) AnimationPath() string {
	return c.Scene + "#" + c.AnimationLabel
}

// RtsCamera builds the camera component.
func (c Config) RtsCamera() rtscamera.RtsCamera {
	cam := rtscamera.DefaultRtsCamera()
	cam.Bounds = rtscamera.NewAabb2d(mgl32.Vec2(c.Camera.BoundsCenter), mgl32.Vec2(c.Camera.BoundsHalfSize))
	cam.MinAngle = mgl32.DegToRad(c.Camera.MinAngleDeg)
	cam.HeightMin = c.Camera.HeightMin
	cam.HeightMax = c.Camera.HeightMax
	cam.Smoothness = c.Camera.Smoothness
	return cam
}

// RtsCameraControls builds the camera controls component.
func (c Config) RtsCameraControls() rtscamera.RtsCameraControls {
	controls := rtscamera.DefaultRtsCameraControls()
	controls.KeyUp = c.Controls.KeyUp
	controls.KeyDown = c.Controls.KeyDown
	controls.KeyLeft = c.Controls.KeyLeft
	controls.KeyRight = c.Controls.KeyRight
	controls.EdgePanWidth = c.Controls.EdgePanWidth
	controls.PanSpeed = c.Controls.PanSpeed
	controls.ZoomSensitivity = c.Controls.ZoomSensitivity
	return controls
}

// DirectionalLight builds the light component.
func (c Config) DirectionalLight() render.DirectionalLight {
	light := render.DefaultDirectionalLight()
	light.Illuminance = c.Light.Illuminance
	light.Shadows = c.Light.Shadows
	return light
}

// LightRotation is the light orientation from its euler angles.
func (c Config) LightRotation() mgl32.Quat {
	return transform.FromRotationEulerYXZ(
		mgl32.DegToRad(c.Light.YawDeg),
		mgl32.DegToRad(c.Light.PitchDeg),
		mgl32.DegToRad(c.Light.RollDeg),
	)
}

// WindowPlugin builds the window plugin.
func (c Config) WindowPlugin() render.WindowPlugin {
	return render.WindowPlugin{Title: c.Window.Title, Width: c.Window.Width, Height: c.Window.Height, Debug: c.Debug}
}
