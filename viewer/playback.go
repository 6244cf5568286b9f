package viewer

import (
	"time"

	"github.com/plus3/rtsviewer/animation"
)

// Playback starts a clip node on a player and returns the transition state
// to store next to it.
type Playback interface {
	Start(player *animation.AnimationPlayer, node animation.NodeIndex, offset float32, repeat animation.RepeatMode) animation.AnimationTransitions
}

// TransitionsPlayback starts nodes through a fresh AnimationTransitions with
// no fade.
type TransitionsPlayback struct{}

func (TransitionsPlayback) Start(player *animation.AnimationPlayer, node animation.NodeIndex, offset float32, repeat animation.RepeatMode) animation.AnimationTransitions {
	transitions := animation.NewAnimationTransitions()
	transitions.Play(player, node, time.Duration(0)).SeekTo(offset).SetRepeat(repeat)
	return transitions
}
