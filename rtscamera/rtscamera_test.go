package rtscamera_test

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/ecs/debugui"
	"github.com/plus3/rtsviewer/input"
	"github.com/plus3/rtsviewer/rtscamera"
	"github.com/plus3/rtsviewer/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAabb2d(t *testing.T) {
	b := rtscamera.NewAabb2d(mgl32.Vec2{0, 0}, mgl32.Vec2{1000, 1000})
	assert.Equal(t, mgl32.Vec2{-1000, -1000}, b.Min)
	assert.Equal(t, mgl32.Vec2{1000, 1000}, b.Max)
	assert.Equal(t, mgl32.Vec2{0, 0}, b.Center())
	assert.Equal(t, mgl32.Vec2{1000, 1000}, b.HalfSize())
	assert.Equal(t, mgl32.Vec2{1000, -3}, b.Clamp(mgl32.Vec2{2500, -3}))
}

func TestHeightAndPitch(t *testing.T) {
	cam := rtscamera.DefaultRtsCamera()
	cam.MinAngle = mgl32.DegToRad(60)
	cam.HeightMax = 50

	assert.InDelta(t, 50, cam.Height(0), 1e-6)
	assert.InDelta(t, 2, cam.Height(1), 1e-6)
	assert.InDelta(t, math32.Pi/2, cam.Pitch(0), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(60), cam.Pitch(1), 1e-6)

	pos, rot := cam.Placement(mgl32.Vec3{10, 0, 10}, 0)
	assertVec(t, mgl32.Vec3{10, 50, 10}, pos, 1e-4)
	fwd := rot.Rotate(mgl32.Vec3{0, 0, -1})
	assertVec(t, mgl32.Vec3{0, -1, 0}, fwd, 1e-5)

	// Fully zoomed in the camera sits behind the focus and looks at it.
	pos, rot = cam.Placement(mgl32.Vec3{}, 1)
	fwd = rot.Rotate(mgl32.Vec3{0, 0, -1})
	hit := pos.Add(fwd.Mul(pos.Y() / -fwd.Y()))
	assertVec(t, mgl32.Vec3{}, hit, 1e-4)
}

func TestControlPanAndZoom(t *testing.T) {
	cam := rtscamera.DefaultRtsCamera()
	cam.Bounds = rtscamera.NewAabb2d(mgl32.Vec2{}, mgl32.Vec2{10, 10})
	controls := rtscamera.DefaultRtsCameraControls()
	controls.KeyRight = input.KeyD
	controls.PanSpeed = 4

	var kb input.Keyboard
	kb.Press(input.KeyD)
	rtscamera.Control(&cam, &controls, &kb, nil, 0.5)
	assert.InDelta(t, 2, cam.TargetFocus.X(), 1e-6)

	for range 10 {
		rtscamera.Control(&cam, &controls, &kb, nil, 0.5)
	}
	assert.InDelta(t, 10, cam.TargetFocus.X(), 1e-6, "clamped to the bounds")

	kb.Release(input.KeyD)
	mouse := &input.Mouse{
		Position: mgl32.Vec2{400, 0},
		Viewport: mgl32.Vec2{800, 600},
		InWindow: true,
		Wheel:    0.4,
	}
	controls.ZoomSensitivity = 1
	rtscamera.Control(&cam, &controls, &kb, mouse, 0.5)
	assert.InDelta(t, -2, cam.TargetFocus.Z(), 1e-6, "cursor on the top edge pans up")
	assert.InDelta(t, 0.4, cam.TargetZoom, 1e-6)

	mouse.Wheel = 5
	rtscamera.Control(&cam, &controls, &kb, mouse, 0)
	assert.InDelta(t, 1, cam.TargetZoom, 1e-6)
}

func TestPluginPlacesCamera(t *testing.T) {
	a := app.New().AddPlugins(input.Plugin{}, transform.Plugin{}, rtscamera.Plugin{})

	cam := rtscamera.DefaultRtsCamera()
	cam.HeightMax = 50
	cam.TargetFocus = mgl32.Vec3{3, 0, 4}
	controls := rtscamera.DefaultRtsCameraControls()
	controls.Enabled = false
	id := a.Storage().Spawn(cam, controls, transform.Identity())

	a.Update(1.0 / 60)
	tr := ecs.ReadComponent[transform.Transform](a.Storage(), id)
	require.NotNil(t, tr)
	assertVec(t, mgl32.Vec3{3, 50, 4}, tr.Translation, 1e-4)

	stored := ecs.ReadComponent[rtscamera.RtsCamera](a.Storage(), id)
	stored.TargetFocus = mgl32.Vec3{13, 0, 4}
	a.Update(1.0 / 60)
	assert.InDelta(t, 10, stored.Focus.X(), 1e-4, "smoothness 0.3 moves 70% of the way per 1/60s")
}

func assertVec(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d: want %v, got %v", i, want, got)
	}
}

func TestControlsYieldToImgui(t *testing.T) {
	a := app.New().AddPlugins(input.Plugin{}, transform.Plugin{}, rtscamera.Plugin{})
	debugui.RegisterDebugUIComponents(a.Registry())
	a.InsertResource(debugui.ImguiInputState{WantCaptureKeyboard: true})

	id := a.Storage().Spawn(rtscamera.DefaultRtsCamera(), rtscamera.DefaultRtsCameraControls(), transform.Identity())
	var kb *input.Keyboard
	require.True(t, a.Storage().ReadSingleton(&kb))
	kb.Press(input.KeyArrowRight)

	a.Update(0.5)
	cam := ecs.ReadComponent[rtscamera.RtsCamera](a.Storage(), id)
	assert.Zero(t, cam.TargetFocus.X(), "keys are ignored while ImGui has the keyboard")

	var state *debugui.ImguiInputState
	require.True(t, a.Storage().ReadSingleton(&state))
	state.WantCaptureKeyboard = false
	kb.Press(input.KeyArrowRight)
	a.Update(0.5)
	assert.Greater(t, cam.TargetFocus.X(), float32(0))
}
