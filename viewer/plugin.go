// Package viewer is the RTS scene viewer: it places an RTS camera and a
// directional light, instances one scene asset and loops its first
// animation clip on every animation player the scene spawns.
package viewer

import (
	"log/slog"

	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs/debugui"
	"github.com/plus3/rtsviewer/engine"
	"github.com/plus3/rtsviewer/rtscamera"
)

// Plugin adds the bootstrap and the animation attachment poller. Add it by
// pointer after the engine plugins.
type Plugin struct {
	Config Config
	// Animations defaults to a fresh registry.
	Animations *Animations
	// Playback defaults to TransitionsPlayback.
	Playback Playback

	attach *AnimationAttachmentSystem
}

func (p *Plugin) Build(a *app.App) {
	if p.Animations == nil {
		p.Animations = NewAnimations()
	}
	if !a.HasPlugin(rtscamera.Plugin{}) {
		a.AddPlugins(rtscamera.Plugin{})
	}

	logger := a.Logger()
	p.attach = NewAnimationAttachmentSystem(p.Animations, p.Playback, logger)
	a.AddSystems(app.Startup, NewBootstrapSystem(p.Config, p.Animations, logger))
	if p.Config.Animate {
		a.AddSystems(app.Update, p.attach)
	}
	if p.Config.Debug {
		debugui.RegisterDebugUIComponents(a.Registry())
		SpawnInspector(a.Storage(), p.attach)
	}
}

// Attachments returns the poller once the plugin is built.
func (p *Plugin) Attachments() *AnimationAttachmentSystem {
	return p.attach
}

// New builds the viewer App. With windowed false the App runs headless at
// the configured tick rate.
func New(cfg Config, logger *slog.Logger, windowed bool) (*app.App, *Plugin) {
	opts := []engine.Option{
		engine.WithAssetRoot(cfg.AssetRoot),
		engine.WithHotReload(cfg.HotReload),
	}
	if windowed {
		opts = append(opts, engine.WithWindow(cfg.WindowPlugin()))
	}

	viewer := &Plugin{Config: cfg}
	a := app.New(app.WithTickRate(cfg.TickRate), app.WithLogger(logger)).
		AddPlugins(engine.DefaultPlugins(opts...)...).
		AddPlugins(viewer)
	return a, viewer
}
