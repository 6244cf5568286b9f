package viewer

import (
	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/asset"
)

// Animations is the registry the bootstrap publishes once and the
// attachment poller reads: one shared graph and its clip nodes in order.
// Reading it before Publish is a startup ordering bug and panics.
type Animations struct {
	graph     asset.Handle[animation.AnimationGraph]
	clips     []animation.NodeIndex
	published bool
	reads     int
}

func NewAnimations() *Animations {
	return &Animations{}
}

// Publish stores the graph and its clip nodes. It panics when called twice
// or with no clips.
func (r *Animations) Publish(graph asset.Handle[animation.AnimationGraph], clips []animation.NodeIndex) {
	if r.published {
		panic("animation registry published twice")
	}
	if len(clips) == 0 {
		panic("animation registry published without clips")
	}
	r.graph = graph
	r.clips = append([]animation.NodeIndex(nil), clips...)
	r.published = true
}

func (r *Animations) Published() bool {
	return r.published
}

// Graph returns the shared graph handle.
func (r *Animations) Graph() asset.Handle[animation.AnimationGraph] {
	r.mustBePublished()
	return r.graph
}

// Clip returns the node of clip i.
func (r *Animations) Clip(i int) animation.NodeIndex {
	r.mustBePublished()
	return r.clips[i]
}

// Clips returns a copy of the clip nodes in order.
func (r *Animations) Clips() []animation.NodeIndex {
	r.mustBePublished()
	return append([]animation.NodeIndex(nil), r.clips...)
}

// Reads counts the calls to Graph, Clip and Clips.
func (r *Animations) Reads() int {
	return r.reads
}

func (r *Animations) mustBePublished() {
	if !r.published {
		panic("animation registry read before it was published")
	}
	r.reads++
}
