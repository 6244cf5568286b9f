package animation

import (
	"fmt"
	"maps"
	"slices"

	"github.com/chewxy/math32"
)

// RepeatMode is how often an animation restarts after reaching its end.
type RepeatMode struct {
	forever bool
	count   uint32
}

var (
	// Never plays the animation once.
	Never = RepeatMode{}
	// Forever loops the animation until it is stopped.
	Forever = RepeatMode{forever: true}
)

// Count plays the animation n times in total.
func Count(n uint32) RepeatMode {
	return RepeatMode{count: n}
}

func (r RepeatMode) IsForever() bool {
	return r.forever
}

// allows reports whether another cycle may start after completions cycles.
func (r RepeatMode) allows(completions uint32) bool {
	if r.forever {
		return true
	}
	return completions < r.count
}

func (r RepeatMode) String() string {
	switch {
	case r.forever:
		return "forever"
	case r.count == 0:
		return "never"
	}
	return fmt.Sprintf("count(%d)", r.count)
}

// ActiveAnimation is the playback state of one graph node.
type ActiveAnimation struct {
	Weight float32
	Speed  float32

	repeat      RepeatMode
	seekTime    float32
	elapsed     float32
	completions uint32
	paused      bool
	finished    bool
}

func newActiveAnimation() *ActiveAnimation {
	return &ActiveAnimation{Weight: 1, Speed: 1}
}

// Repeat makes the animation loop forever.
func (a *ActiveAnimation) Repeat() *ActiveAnimation {
	return a.SetRepeat(Forever)
}

func (a *ActiveAnimation) SetRepeat(mode RepeatMode) *ActiveAnimation {
	a.repeat = mode
	return a
}

// RepeatMode returns the configured repeat mode.
func (a *ActiveAnimation) RepeatMode() RepeatMode {
	return a.repeat
}

// SeekTo moves the playhead to t seconds into the clip.
func (a *ActiveAnimation) SeekTo(t float32) *ActiveAnimation {
	a.seekTime = t
	return a
}

func (a *ActiveAnimation) SetSpeed(speed float32) *ActiveAnimation {
	a.Speed = speed
	return a
}

func (a *ActiveAnimation) Pause() { a.paused = true }

func (a *ActiveAnimation) Resume() { a.paused = false }

func (a *ActiveAnimation) IsPaused() bool { return a.paused }

func (a *ActiveAnimation) IsFinished() bool { return a.finished }

// SeekTime is the playhead position inside the clip, in seconds.
func (a *ActiveAnimation) SeekTime() float32 { return a.seekTime }

// Elapsed is the total playback time since the animation started, in seconds.
func (a *ActiveAnimation) Elapsed() float32 { return a.elapsed }

// Completions counts how often the playhead reached the end of the clip.
func (a *ActiveAnimation) Completions() uint32 { return a.completions }

func (a *ActiveAnimation) replay() {
	a.seekTime = 0
	a.elapsed = 0
	a.completions = 0
	a.finished = false
	a.paused = false
}

// advance moves the playhead by dt*Speed seconds within a clip of duration seconds.
func (a *ActiveAnimation) advance(dt, duration float32) {
	if a.finished || a.paused {
		return
	}
	delta := dt * a.Speed
	a.elapsed += delta
	a.seekTime += delta

	if duration <= 0 {
		return
	}

	over := a.seekTime >= duration
	under := a.seekTime < 0
	if !over && !under {
		return
	}

	a.completions++
	if !a.repeat.allows(a.completions) {
		a.finished = true
		a.seekTime = math32.Max(0, math32.Min(a.seekTime, duration))
		return
	}
	a.seekTime = math32.Mod(a.seekTime, duration)
	if a.seekTime < 0 {
		a.seekTime += duration
	}
}

// AnimationPlayer is the component holding the active animations of one
// animated hierarchy.
type AnimationPlayer struct {
	active map[NodeIndex]*ActiveAnimation
}

// Play returns the active animation of node, starting it if it is not running.
func (p *AnimationPlayer) Play(node NodeIndex) *ActiveAnimation {
	if a, ok := p.active[node]; ok {
		return a
	}
	if p.active == nil {
		p.active = make(map[NodeIndex]*ActiveAnimation)
	}
	a := newActiveAnimation()
	p.active[node] = a
	return a
}

// Start plays node from the beginning even if it is already running.
func (p *AnimationPlayer) Start(node NodeIndex) *ActiveAnimation {
	a := p.Play(node)
	a.replay()
	return a
}

func (p *AnimationPlayer) Stop(node NodeIndex) {
	delete(p.active, node)
}

func (p *AnimationPlayer) StopAll() {
	clear(p.active)
}

// Animation returns the active animation of node.
func (p *AnimationPlayer) Animation(node NodeIndex) (*ActiveAnimation, bool) {
	a, ok := p.active[node]
	return a, ok
}

func (p *AnimationPlayer) IsPlaying(node NodeIndex) bool {
	_, ok := p.active[node]
	return ok
}

// Playing returns the active nodes in ascending order.
func (p *AnimationPlayer) Playing() []NodeIndex {
	return slices.Sorted(maps.Keys(p.active))
}

// AllFinished reports whether every active animation has finished.
func (p *AnimationPlayer) AllFinished() bool {
	for _, a := range p.active {
		if !a.finished {
			return false
		}
	}
	return true
}
