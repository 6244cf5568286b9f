// Package input holds the keyboard and mouse state systems read each tick.
// The window runner fills it from ebiten before every Update; headless code
// and tests write it directly.
package input

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
)

type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyEscape
	KeySpace
	KeyF1
	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown:    "Unknown",
	KeyArrowUp:    "ArrowUp",
	KeyArrowDown:  "ArrowDown",
	KeyArrowLeft:  "ArrowLeft",
	KeyArrowRight: "ArrowRight",
	KeyEscape:     "Escape",
	KeySpace:      "Space",
	KeyF1:         "F1",
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('A' + int(k-KeyA)))
	}
}

func (k KeyCode) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("KeyCode(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKeyCode accepts the names printed by String, case-insensitively.
func ParseKeyCode(s string) (KeyCode, error) {
	for k := KeyA; k < keyCount; k++ {
		if strings.EqualFold(keyNames[k], s) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", s)
}

func (k KeyCode) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *KeyCode) UnmarshalText(text []byte) error {
	parsed, err := ParseKeyCode(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Keyboard is the singleton of pressed keys.
type Keyboard struct {
	pressed     [keyCount]bool
	justPressed [keyCount]bool
}

// Press marks k held, and just pressed if it was not held before.
func (kb *Keyboard) Press(k KeyCode) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	if !kb.pressed[k] {
		kb.justPressed[k] = true
	}
	kb.pressed[k] = true
}

func (kb *Keyboard) Release(k KeyCode) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	kb.pressed[k] = false
	kb.justPressed[k] = false
}

func (kb *Keyboard) Pressed(k KeyCode) bool {
	return k > KeyUnknown && k < keyCount && kb.pressed[k]
}

func (kb *Keyboard) JustPressed(k KeyCode) bool {
	return k > KeyUnknown && k < keyCount && kb.justPressed[k]
}

// EndFrame forgets which keys were just pressed.
func (kb *Keyboard) EndFrame() {
	kb.justPressed = [keyCount]bool{}
}

// Mouse is the singleton cursor state. Position and Viewport are in pixels
// with the origin at the top left.
type Mouse struct {
	Position mgl32.Vec2
	Viewport mgl32.Vec2
	// Wheel is the vertical scroll since the previous tick, in notches.
	Wheel    float32
	InWindow bool
}

// EndFrame clears the per-tick wheel delta.
func (m *Mouse) EndFrame() {
	m.Wheel = 0
}

// Plugin registers the input singletons and clears per-tick state after Update.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Keyboard](a.Registry())
	ecs.RegisterComponent[Mouse](a.Registry())
	a.InsertResource(Keyboard{})
	a.InsertResource(Mouse{})
	a.AddSystems(app.PostUpdate, &EndFrameSystem{})
}

type EndFrameSystem struct {
	Keyboard ecs.Singleton[Keyboard]
	Mouse    ecs.Singleton[Mouse]
}

func (s *EndFrameSystem) Execute(frame *ecs.UpdateFrame) {
	if kb := s.Keyboard.Get(); kb != nil {
		kb.EndFrame()
	}
	if m := s.Mouse.Get(); m != nil {
		m.EndFrame()
	}
}
