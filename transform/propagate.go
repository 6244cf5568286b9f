package transform

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
)

// maxDepth bounds parent chains; deeper chains are treated as cycles.
const maxDepth = 64

// Plugin registers the transform components and runs propagation after Update.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Transform](a.Registry())
	ecs.RegisterComponent[GlobalTransform](a.Registry())
	ecs.RegisterComponent[Parent](a.Registry())
	a.AddSystems(app.PostUpdate, &PropagateSystem{})
}

// PropagateSystem writes every GlobalTransform from the entity's Transform
// and its parent chain.
type PropagateSystem struct {
	Nodes ecs.Query[struct {
		Transform *Transform
		Global    *GlobalTransform
		Parent    *Parent `ecs:"optional"`
	}]

	parents *ecs.View[struct {
		Transform *Transform
		Parent    *Parent `ecs:"optional"`
	}]
	world map[ecs.EntityId]mgl32.Mat4
}

func (s *PropagateSystem) Execute(frame *ecs.UpdateFrame) {
	if s.world == nil {
		s.world = make(map[ecs.EntityId]mgl32.Mat4)
		s.parents = ecs.NewView[struct {
			Transform *Transform
			Parent    *Parent `ecs:"optional"`
		}](frame.Storage)
	}
	clear(s.world)

	for id, node := range s.Nodes.Iter() {
		node.Global.Matrix = s.worldMatrix(frame.Storage, id, node.Transform, node.Parent, 0)
	}
}

func (s *PropagateSystem) worldMatrix(storage *ecs.Storage, id ecs.EntityId, local *Transform, parent *Parent, depth int) mgl32.Mat4 {
	if m, ok := s.world[id]; ok {
		return m
	}

	m := local.Matrix()
	if parent != nil && depth < maxDepth {
		if parentId, ok := storage.ResolveEntityRef(parent.Ref); ok {
			if p := s.parents.Get(parentId); p != nil {
				m = s.worldMatrix(storage, parentId, p.Transform, p.Parent, depth+1).Mul4(m)
			}
		}
	}
	s.world[id] = m
	return m
}
