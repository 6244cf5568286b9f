// Package rtscamera is a top-down strategy camera: it pans a focus point
// over a bounded ground plane and zooms between a high overhead view and a
// low tilted one.
package rtscamera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/input"
)

// Aabb2d is an axis-aligned rectangle on the ground plane. X maps to world
// X and Y to world Z.
type Aabb2d struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// NewAabb2d returns the rectangle centered at center extending halfSize in
// each direction.
func NewAabb2d(center, halfSize mgl32.Vec2) Aabb2d {
	return Aabb2d{Min: center.Sub(halfSize), Max: center.Add(halfSize)}
}

func (b Aabb2d) Center() mgl32.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Aabb2d) HalfSize() mgl32.Vec2 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Clamp returns the point of b closest to p.
func (b Aabb2d) Clamp(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		mgl32.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl32.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
	}
}

// RtsCamera is the component configuring and tracking one strategy camera.
type RtsCamera struct {
	Bounds Aabb2d
	// MinAngle is the pitch below the horizon when fully zoomed in, in radians.
	MinAngle  float32
	HeightMin float32
	HeightMax float32
	// TargetFocus is the ground point the camera moves toward.
	TargetFocus mgl32.Vec3
	// TargetZoom runs from 0, fully out, to 1, fully in.
	TargetZoom float32
	// Smoothness is the fraction of the remaining distance kept each 1/60s.
	// Zero snaps to the targets.
	Smoothness float32

	// Focus and Zoom are the current, smoothed values.
	Focus mgl32.Vec3
	Zoom  float32

	initialized bool
}

// DefaultRtsCamera returns the stock tuning. Callers usually override
// Bounds, MinAngle and the height range.
func DefaultRtsCamera() RtsCamera {
	return RtsCamera{
		Bounds:     NewAabb2d(mgl32.Vec2{}, mgl32.Vec2{20, 20}),
		MinAngle:   mgl32.DegToRad(20),
		HeightMin:  2,
		HeightMax:  30,
		Smoothness: 0.3,
	}
}

// Height returns the camera height for a zoom level.
func (c *RtsCamera) Height(zoom float32) float32 {
	return lerp(c.HeightMax, c.HeightMin, zoom)
}

// Pitch returns the angle below the horizon for a zoom level: straight down
// fully zoomed out, MinAngle fully zoomed in.
func (c *RtsCamera) Pitch(zoom float32) float32 {
	return lerp(math32.Pi/2, c.MinAngle, zoom)
}

// Placement returns the camera position and rotation looking at focus from
// the height and pitch of zoom.
func (c *RtsCamera) Placement(focus mgl32.Vec3, zoom float32) (mgl32.Vec3, mgl32.Quat) {
	height := c.Height(zoom)
	pitch := c.Pitch(zoom)

	back := float32(0)
	if s := math32.Sin(pitch); s > 1e-6 {
		back = height * math32.Cos(pitch) / s
	}
	position := focus.Add(mgl32.Vec3{0, height, back})
	rotation := mgl32.QuatRotate(-pitch, mgl32.Vec3{1, 0, 0})
	return position, rotation
}

// RtsCameraControls binds input to an RtsCamera on the same entity.
type RtsCameraControls struct {
	KeyUp    input.KeyCode
	KeyDown  input.KeyCode
	KeyLeft  input.KeyCode
	KeyRight input.KeyCode
	// EdgePanWidth is the fraction of the viewport along each border that
	// pans when the cursor rests there.
	EdgePanWidth float32
	// PanSpeed is in world units per second.
	PanSpeed float32
	// ZoomSensitivity is the TargetZoom change per wheel notch.
	ZoomSensitivity float32
	Enabled         bool
}

// DefaultRtsCameraControls binds the arrow keys.
func DefaultRtsCameraControls() RtsCameraControls {
	return RtsCameraControls{
		KeyUp:           input.KeyArrowUp,
		KeyDown:         input.KeyArrowDown,
		KeyLeft:         input.KeyArrowLeft,
		KeyRight:        input.KeyArrowRight,
		EdgePanWidth:    0.05,
		PanSpeed:        15,
		ZoomSensitivity: 1,
		Enabled:         true,
	}
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
