package asset

import (
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
)

// Assets is the singleton giving systems access to the Server.
type Assets struct {
	Server *Server
	// Events lists the state changes published at the start of this tick.
	Events []Event
}

// Plugin creates the Server and publishes finished loads every tick.
// Add it before any plugin that loads assets.
type Plugin struct {
	Root      string
	HotReload bool
	Loaders   []Loader
}

func (p Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Assets](a.Registry())

	root := p.Root
	if root == "" {
		root = "assets"
	}
	server := NewServer(root, WithLogger(a.Logger().With("component", "asset")), WithLoaders(p.Loaders...))
	a.InsertResource(Assets{Server: server})

	if p.HotReload {
		if err := server.Watch(); err != nil {
			a.Logger().Warn("asset hot reload disabled", "root", root, "error", err)
		}
	}
	a.OnShutdown(server.Close)

	a.AddSystems(app.Update, &UpdateSystem{})
}

// UpdateSystem publishes finished loads. It runs first in the Update schedule.
type UpdateSystem struct {
	Assets ecs.Singleton[Assets]
}

func (s *UpdateSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	if assets == nil || assets.Server == nil {
		return
	}
	assets.Events = assets.Server.Update()
}

// ServerOf returns the Server stored in storage, or nil.
func ServerOf(storage *ecs.Storage) *Server {
	var assets *Assets
	if !storage.ReadSingleton(&assets) {
		return nil
	}
	return assets.Server
}

// MustServer is ServerOf that panics when the asset plugin was not added.
func MustServer(storage *ecs.Storage) *Server {
	s := ServerOf(storage)
	if s == nil {
		panic("asset server not present in storage; add asset.Plugin first")
	}
	return s
}
