package viewer

import (
	"log/slog"

	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/scene"
	"github.com/plus3/rtsviewer/transform"
)

// BootstrapSystem runs once at Startup: it spawns the camera, the light and
// the scene root, and publishes the animation registry.
type BootstrapSystem struct {
	config     Config
	animations *Animations
	logger     *slog.Logger
}

func NewBootstrapSystem(cfg Config, animations *Animations, logger *slog.Logger) *BootstrapSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &BootstrapSystem{config: cfg, animations: animations, logger: logger}
}

func (s *BootstrapSystem) Execute(frame *ecs.UpdateFrame) {
	server := asset.MustServer(frame.Storage)
	cfg := s.config

	frame.Commands.Spawn(
		render.DefaultCamera3d(),
		cfg.RtsCamera(),
		cfg.RtsCameraControls(),
		transform.Identity(),
		transform.GlobalTransform{},
		scene.Name("Camera"),
	)

	lightTransform := transform.FromRotation(cfg.LightRotation())
	frame.Commands.Spawn(
		cfg.DirectionalLight(),
		lightTransform,
		transform.NewGlobalTransform(lightTransform),
		scene.Name(cfg.Light.Name),
	)

	frame.Commands.Spawn(
		scene.SceneRoot{Handle: asset.Load[scene.Scene](server, cfg.ScenePath())},
		transform.Identity(),
		transform.GlobalTransform{},
		scene.Name(cfg.Scene),
	)
	s.logger.Info("scene requested", "path", cfg.ScenePath())

	if !cfg.Animate {
		return
	}
	clip := asset.Load[animation.AnimationClip](server, cfg.AnimationPath())
	graph, nodes := animation.FromClips([]asset.Handle[animation.AnimationClip]{clip})
	s.animations.Publish(asset.Add(server, graph), nodes)
	s.logger.Info("animation graph published", "clip", cfg.AnimationPath(), "nodes", len(nodes))
}
