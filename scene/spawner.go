package scene

import (
	"log/slog"
	"slices"

	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/transform"
)

// Plugin registers the scene components and the spawner. Add it after the
// asset plugin.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Name](a.Registry())
	ecs.RegisterComponent[SceneRoot](a.Registry())
	ecs.RegisterComponent[SceneInstance](a.Registry())
	ecs.RegisterComponent[SceneFailed](a.Registry())
	// Components of spawned nodes owned by other plugins.
	ecs.RegisterComponent[render.Mesh3d](a.Registry())
	ecs.RegisterComponent[animation.AnimationPlayer](a.Registry())
	ecs.RegisterComponent[transform.Transform](a.Registry())
	ecs.RegisterComponent[transform.GlobalTransform](a.Registry())
	ecs.RegisterComponent[transform.Parent](a.Registry())
	a.AddSystems(app.Update, NewSpawnSystem(a.Logger()))
}

// SpawnSystem instances every SceneRoot once its scene has loaded, and
// replaces the instance when the scene is reloaded. Node entities are
// children of the root entity.
type SpawnSystem struct {
	Roots ecs.Query[struct {
		Root     *SceneRoot
		Instance *SceneInstance `ecs:"optional"`
		Failed   *SceneFailed   `ecs:"optional"`
	}]
	Assets ecs.Singleton[asset.Assets]

	logger *slog.Logger
}

func NewSpawnSystem(logger *slog.Logger) *SpawnSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpawnSystem{logger: logger}
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	if assets == nil || assets.Server == nil {
		return
	}
	server := assets.Server

	reloaded := make(map[asset.Id]bool)
	for _, ev := range assets.Events {
		if ev.Reloaded && ev.State == asset.Loaded {
			reloaded[ev.Id] = true
		}
	}

	for id, root := range s.Roots.Iter() {
		if root.Failed != nil {
			continue
		}
		handle := root.Root.Handle

		if root.Instance != nil {
			// A reloaded scene replaces the entities of its instance.
			if reloaded[handle.Id()] {
				s.instance(frame, server, id, asset.MustGet(server, handle), root.Instance.Entities)
			}
			continue
		}

		switch asset.LoadStateOf(server, handle) {
		case asset.Failed:
			err := server.Err(handle.Id())
			s.logger.Error("scene failed to load", "path", server.Path(handle.Id()).String(), "error", err)
			frame.Commands.AddComponent(id, SceneFailed{Err: err})
		case asset.Loaded:
			frame.Commands.AddComponent(id, SceneInstance{})
			s.instance(frame, server, id, asset.MustGet(server, handle), nil)
		}
	}
}

// instance queues deleting previous and spawning sc under the root entity.
func (s *SpawnSystem) instance(frame *ecs.UpdateFrame, server *asset.Server, id ecs.EntityId, sc *Scene, previous []*ecs.EntityRef) {
	rootRef := frame.Storage.CreateEntityRef(id)
	previous = slices.Clone(previous)

	frame.Commands.Defer(func() {
		for _, ref := range previous {
			if old, ok := frame.Storage.ResolveEntityRef(ref); ok {
				frame.Storage.Delete(old)
			}
		}
		refs := Spawn(frame.Storage, server, sc, rootRef)
		if rootId, ok := frame.Storage.ResolveEntityRef(rootRef); ok {
			if instance := ecs.ReadComponent[SceneInstance](frame.Storage, rootId); instance != nil {
				instance.Entities = refs
			}
		}
		if len(previous) > 0 {
			s.logger.Info("scene respawned", "scene", sc.Name, "entities", len(refs), "replaced", len(previous))
		} else {
			s.logger.Info("scene spawned", "scene", sc.Name, "entities", len(refs))
		}
	})
}

// Spawn creates one entity per scene node, parented to rootRef, and returns
// refs to them in depth-first order.
func Spawn(storage *ecs.Storage, server *asset.Server, sc *Scene, rootRef *ecs.EntityRef) []*ecs.EntityRef {
	refs := make([]*ecs.EntityRef, 0, len(sc.Nodes))

	var spawnNode func(index int, parent *ecs.EntityRef)
	spawnNode = func(index int, parent *ecs.EntityRef) {
		node := sc.Nodes[index]
		components := []any{
			Name(node.Name),
			node.Transform,
			transform.NewGlobalTransform(node.Transform),
		}
		if parent != nil {
			components = append(components, transform.Parent{Ref: parent})
		}
		if node.Mesh.Path != "" {
			components = append(components, render.Mesh3d{Handle: asset.Load[render.Mesh](server, node.Mesh.String())})
		}
		if node.AnimationRoot {
			components = append(components, animation.AnimationPlayer{})
		}

		ref := storage.CreateEntityRef(storage.Spawn(components...))
		refs = append(refs, ref)
		for _, child := range node.Children {
			spawnNode(child, ref)
		}
	}

	for _, root := range sc.Roots {
		spawnNode(root, rootRef)
	}
	return refs
}
