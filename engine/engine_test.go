package engine_test

import (
	"testing"

	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/engine"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlugins(t *testing.T) {
	dir := t.TempDir()
	plugins := engine.DefaultPlugins(engine.WithAssetRoot(dir))
	require.Len(t, plugins, 7)
	assert.Equal(t, asset.Plugin{Root: dir}, plugins[0])

	a := app.New().AddPlugins(plugins...)
	assert.True(t, a.HasPlugin(scene.Plugin{}))
	assert.False(t, a.HasPlugin(render.WindowPlugin{}))
	assert.Equal(t, dir, asset.MustServer(a.Storage()).Root())

	a.Update(1.0 / 60)
	assert.Equal(t, uint64(1), a.Ticks())
}

func TestDefaultPluginsWithWindow(t *testing.T) {
	plugins := engine.DefaultPlugins(engine.WithWindow(render.WindowPlugin{Title: "t"}), engine.WithHotReload(true))
	require.Len(t, plugins, 8)
	assert.Equal(t, render.WindowPlugin{Title: "t"}, plugins[7])
	assert.True(t, plugins[0].(asset.Plugin).HotReload)
}
