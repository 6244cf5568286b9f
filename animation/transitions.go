package animation

import (
	"slices"
	"time"
)

type transition struct {
	node      NodeIndex
	weight    float32
	declining float32
}

// AnimationTransitions is the component that switches a player between
// nodes, fading the previous node out.
type AnimationTransitions struct {
	main        NodeIndex
	hasMain     bool
	transitions []transition
}

// NewAnimationTransitions returns transitions with no main animation.
func NewAnimationTransitions() AnimationTransitions {
	return AnimationTransitions{}
}

// Main returns the node most recently played.
func (t *AnimationTransitions) Main() (NodeIndex, bool) {
	return t.main, t.hasMain
}

// Fading returns how many nodes are still fading out.
func (t *AnimationTransitions) Fading() int {
	return len(t.transitions)
}

// Play starts node from the beginning on player and fades the previous main
// node out over fade. A zero fade stops it at once.
func (t *AnimationTransitions) Play(player *AnimationPlayer, node NodeIndex, fade time.Duration) *ActiveAnimation {
	if t.hasMain && t.main != node {
		if old, ok := player.Animation(t.main); ok {
			if fade <= 0 {
				player.Stop(t.main)
			} else {
				t.transitions = append(t.transitions, transition{
					node:      t.main,
					weight:    old.Weight,
					declining: old.Weight / float32(fade.Seconds()),
				})
			}
		}
	}

	t.transitions = slices.DeleteFunc(t.transitions, func(tr transition) bool {
		return tr.node == node
	})
	t.main = node
	t.hasMain = true
	return player.Start(node)
}

// advance lowers the weight of fading nodes and stops those that reach zero.
func (t *AnimationTransitions) advance(player *AnimationPlayer, dt float32) {
	kept := t.transitions[:0]
	for _, tr := range t.transitions {
		tr.weight -= tr.declining * dt
		if tr.weight <= 0 {
			player.Stop(tr.node)
			continue
		}
		if a, ok := player.Animation(tr.node); ok {
			a.Weight = tr.weight
			kept = append(kept, tr)
		}
	}
	t.transitions = kept
}
