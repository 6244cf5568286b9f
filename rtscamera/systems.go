package rtscamera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/ecs/debugui"
	"github.com/plus3/rtsviewer/input"
	"github.com/plus3/rtsviewer/transform"
)

// Plugin registers the camera components and runs controls then camera
// placement every Update.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[RtsCamera](a.Registry())
	ecs.RegisterComponent[RtsCameraControls](a.Registry())
	ecs.RegisterComponent[transform.Transform](a.Registry())
	a.AddSystems(app.Update, &ControlsSystem{}, &CameraSystem{})
}

// ControlsSystem moves TargetFocus and TargetZoom from keyboard, cursor and wheel.
type ControlsSystem struct {
	Cameras ecs.Query[struct {
		Camera   *RtsCamera
		Controls *RtsCameraControls
	}]
	Keyboard ecs.Singleton[input.Keyboard]
	Mouse    ecs.Singleton[input.Mouse]
	Imgui    ecs.Singleton[debugui.ImguiInputState]
}

func (s *ControlsSystem) Execute(frame *ecs.UpdateFrame) {
	kb := s.Keyboard.Get()
	mouse := s.Mouse.Get()
	if imgui := s.Imgui.Get(); imgui != nil {
		if imgui.WantCaptureMouse {
			mouse = nil
		}
		if imgui.WantCaptureKeyboard {
			kb = nil
		}
	}

	for _, c := range s.Cameras.Iter() {
		if !c.Controls.Enabled {
			continue
		}
		Control(c.Camera, c.Controls, kb, mouse, float32(frame.DeltaTime))
	}
}

// Control applies one tick of input to cam. kb and mouse may be nil.
func Control(cam *RtsCamera, controls *RtsCameraControls, kb *input.Keyboard, mouse *input.Mouse, dt float32) {
	var dir mgl32.Vec2
	if kb != nil {
		if kb.Pressed(controls.KeyLeft) {
			dir[0]--
		}
		if kb.Pressed(controls.KeyRight) {
			dir[0]++
		}
		if kb.Pressed(controls.KeyUp) {
			dir[1]--
		}
		if kb.Pressed(controls.KeyDown) {
			dir[1]++
		}
	}

	if mouse != nil {
		if mouse.InWindow && mouse.Viewport.X() > 0 && mouse.Viewport.Y() > 0 {
			edgeX := mouse.Viewport.X() * controls.EdgePanWidth
			edgeY := mouse.Viewport.Y() * controls.EdgePanWidth
			switch {
			case mouse.Position.X() < edgeX:
				dir[0]--
			case mouse.Position.X() > mouse.Viewport.X()-edgeX:
				dir[0]++
			}
			switch {
			case mouse.Position.Y() < edgeY:
				dir[1]--
			case mouse.Position.Y() > mouse.Viewport.Y()-edgeY:
				dir[1]++
			}
		}
		if mouse.Wheel != 0 {
			cam.TargetZoom = mgl32.Clamp(cam.TargetZoom+mouse.Wheel*controls.ZoomSensitivity, 0, 1)
		}
	}

	if dir.Len() > 0 {
		step := dir.Normalize().Mul(controls.PanSpeed * dt)
		cam.TargetFocus = cam.TargetFocus.Add(mgl32.Vec3{step.X(), 0, step.Y()})
	}
	ground := cam.Bounds.Clamp(mgl32.Vec2{cam.TargetFocus.X(), cam.TargetFocus.Z()})
	cam.TargetFocus = mgl32.Vec3{ground.X(), cam.TargetFocus.Y(), ground.Y()}
}

// CameraSystem eases Focus and Zoom toward their targets and writes the
// camera Transform.
type CameraSystem struct {
	Cameras ecs.Query[struct {
		Camera    *RtsCamera
		Transform *transform.Transform
	}]
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	for _, c := range s.Cameras.Iter() {
		Follow(c.Camera, c.Transform, float32(frame.DeltaTime))
	}
}

// Follow advances cam's smoothing by dt seconds and places t. The first call
// snaps to the targets.
func Follow(cam *RtsCamera, t *transform.Transform, dt float32) {
	cam.TargetZoom = mgl32.Clamp(cam.TargetZoom, 0, 1)

	if !cam.initialized || cam.Smoothness <= 0 {
		cam.Focus = cam.TargetFocus
		cam.Zoom = cam.TargetZoom
		cam.initialized = true
	} else {
		alpha := 1 - math32.Pow(mgl32.Clamp(cam.Smoothness, 0, 1), dt*60)
		cam.Focus = cam.Focus.Add(cam.TargetFocus.Sub(cam.Focus).Mul(alpha))
		cam.Zoom = lerp(cam.Zoom, cam.TargetZoom, alpha)
	}

	t.Translation, t.Rotation = cam.Placement(cam.Focus, cam.Zoom)
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
}
