package input

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenKeys = [keyCount]ebiten.Key{
	KeyA: ebiten.KeyA, KeyB: ebiten.KeyB, KeyC: ebiten.KeyC, KeyD: ebiten.KeyD,
	KeyE: ebiten.KeyE, KeyF: ebiten.KeyF, KeyG: ebiten.KeyG, KeyH: ebiten.KeyH,
	KeyI: ebiten.KeyI, KeyJ: ebiten.KeyJ, KeyK: ebiten.KeyK, KeyL: ebiten.KeyL,
	KeyM: ebiten.KeyM, KeyN: ebiten.KeyN, KeyO: ebiten.KeyO, KeyP: ebiten.KeyP,
	KeyQ: ebiten.KeyQ, KeyR: ebiten.KeyR, KeyS: ebiten.KeyS, KeyT: ebiten.KeyT,
	KeyU: ebiten.KeyU, KeyV: ebiten.KeyV, KeyW: ebiten.KeyW, KeyX: ebiten.KeyX,
	KeyY: ebiten.KeyY, KeyZ: ebiten.KeyZ,

	KeyArrowUp:    ebiten.KeyArrowUp,
	KeyArrowDown:  ebiten.KeyArrowDown,
	KeyArrowLeft:  ebiten.KeyArrowLeft,
	KeyArrowRight: ebiten.KeyArrowRight,
	KeyEscape:     ebiten.KeyEscape,
	KeySpace:      ebiten.KeySpace,
	KeyF1:         ebiten.KeyF1,
}

// SampleEbiten copies ebiten's input state for this frame. Call it from
// ebiten's Update, before ticking the app.
func SampleEbiten(kb *Keyboard, m *Mouse, width, height int) {
	if kb != nil {
		for k := KeyA; k < keyCount; k++ {
			key := ebitenKeys[k]
			switch {
			case inpututil.IsKeyJustPressed(key):
				kb.pressed[k] = true
				kb.justPressed[k] = true
			case ebiten.IsKeyPressed(key):
				kb.pressed[k] = true
			default:
				kb.pressed[k] = false
			}
		}
	}

	if m != nil {
		x, y := ebiten.CursorPosition()
		_, wheel := ebiten.Wheel()
		m.Position = mgl32.Vec2{float32(x), float32(y)}
		m.Viewport = mgl32.Vec2{float32(width), float32(height)}
		m.Wheel += float32(wheel)
		m.InWindow = x >= 0 && y >= 0 && x < width && y < height
	}
}
