package animation

import (
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
)

// Plugin registers the animation components and advances players every Update.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[AnimationPlayer](a.Registry())
	ecs.RegisterComponent[AnimationGraphHandle](a.Registry())
	ecs.RegisterComponent[AnimationTransitions](a.Registry())
	a.AddSystems(app.Update, &AdvanceSystem{})
}

// AdvanceSystem moves the playhead of every active animation whose clip has
// loaded. Players without a graph handle do not advance.
type AdvanceSystem struct {
	Players ecs.Query[struct {
		Player      *AnimationPlayer
		Graph       *AnimationGraphHandle
		Transitions *AnimationTransitions `ecs:"optional"`
	}]
	Assets ecs.Singleton[asset.Assets]
}

func (s *AdvanceSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	if assets == nil || assets.Server == nil {
		return
	}
	dt := float32(frame.DeltaTime)

	for _, p := range s.Players.Iter() {
		graph, ok := asset.Get(assets.Server, p.Graph.Handle)
		if !ok {
			continue
		}
		Advance(assets.Server, graph, p.Player, dt)
		if p.Transitions != nil {
			p.Transitions.advance(p.Player, dt)
		}
	}
}

// Advance moves every active animation of player by dt seconds. Nodes whose
// clip is not loaded yet keep their position.
func Advance(server *asset.Server, graph *AnimationGraph, player *AnimationPlayer, dt float32) {
	for node, active := range player.active {
		n, ok := graph.Node(node)
		if !ok || !n.HasClip {
			continue
		}
		clip, ok := asset.Get(server, n.Clip)
		if !ok {
			continue
		}
		active.advance(dt, clip.Duration)
	}
}
