// Package engine bundles the plugins every viewer needs.
package engine

import (
	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/gltfasset"
	"github.com/plus3/rtsviewer/input"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/scene"
	"github.com/plus3/rtsviewer/transform"
)

type options struct {
	assets asset.Plugin
	window *render.WindowPlugin
}

// Option configures DefaultPlugins.
type Option func(*options)

// WithAssetRoot sets the directory assets load from.
func WithAssetRoot(root string) Option {
	return func(o *options) { o.assets.Root = root }
}

// WithHotReload reloads assets when their files change.
func WithHotReload(enabled bool) Option {
	return func(o *options) { o.assets.HotReload = enabled }
}

// WithWindow opens a window; without it the App runs headless.
func WithWindow(w render.WindowPlugin) Option {
	return func(o *options) { o.window = &w }
}

// DefaultPlugins returns, in build order: asset, glTF loader, transform,
// input, animation, scene, render and optionally the window.
func DefaultPlugins(opts ...Option) []app.Plugin {
	o := options{assets: asset.Plugin{Root: "assets"}}
	for _, opt := range opts {
		opt(&o)
	}

	plugins := []app.Plugin{
		o.assets,
		gltfasset.Plugin{},
		transform.Plugin{},
		input.Plugin{},
		animation.Plugin{},
		scene.Plugin{},
		render.Plugin{},
	}
	if o.window != nil {
		plugins = append(plugins, *o.window)
	}
	return plugins
}
