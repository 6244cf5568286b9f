// Package render holds the camera, light and mesh components and draws a
// wireframe preview of the world into an ebiten window.
package render

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/transform"
)

// Camera3d is a perspective camera looking down its transform's -Z axis.
type Camera3d struct {
	// FovY is the vertical field of view in radians.
	FovY float32
	Near float32
	Far  float32
	// Active selects the camera used for drawing when several exist.
	Active bool
}

// DefaultCamera3d returns an active camera with a 45 degree field of view.
func DefaultCamera3d() Camera3d {
	return Camera3d{FovY: math32.Pi / 4, Near: 0.1, Far: 5000, Active: true}
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func (c Camera3d) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection combines the projection with the inverse of the camera's
// world matrix.
func (c Camera3d) ViewProjection(global transform.GlobalTransform, aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(global.Matrix.Inv())
}

// DirectionalLight lights the scene from its transform's forward direction.
type DirectionalLight struct {
	// Illuminance is in lux.
	Illuminance float32
	Shadows     bool
	Color       color.RGBA
}

// DefaultDirectionalLight is a white light of full daylight illuminance.
func DefaultDirectionalLight() DirectionalLight {
	return DirectionalLight{Illuminance: 10000, Color: color.RGBA{255, 255, 255, 255}}
}

// Plugin registers the render components. It does not open a window; add
// WindowPlugin for that.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Camera3d](a.Registry())
	ecs.RegisterComponent[DirectionalLight](a.Registry())
	ecs.RegisterComponent[Mesh3d](a.Registry())
}
