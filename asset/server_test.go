package asset_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Text struct {
	Body string
}

// lineLoader publishes the whole file as Text and every line as "Line<i>".
type lineLoader struct {
	decodes atomic.Int32
}

func (l *lineLoader) Extensions() []string { return []string{".txt"} }

func (l *lineLoader) Load(ctx context.Context, lc *asset.LoadContext) (any, error) {
	l.decodes.Add(1)
	data, err := os.ReadFile(lc.FullPath)
	if err != nil {
		return nil, err
	}
	for i, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		lc.AddLabeled(fmt.Sprintf("Line%d", i), &Text{Body: line})
	}
	return &Text{Body: string(data)}, nil
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func settle(t *testing.T, s *asset.Server) []asset.Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	return s.Update()
}

func TestParseAssetPath(t *testing.T) {
	p := asset.ParseAssetPath("models/Fox.glb#Animation0")
	assert.Equal(t, "models/Fox.glb", p.Path)
	assert.Equal(t, "Animation0", p.Label)
	assert.Equal(t, ".glb", p.Ext())
	assert.Equal(t, "models/Fox.glb#Animation0", p.String())

	p = asset.ParseAssetPath("./cube.GLTF")
	assert.Equal(t, "cube.GLTF", p.Path)
	assert.Empty(t, p.Label)
	assert.Equal(t, ".gltf", p.Ext())
	assert.Equal(t, "cube.GLTF#Scene0", p.WithLabel("Scene0").String())
}

func TestLoadPublishesOnUpdate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "first\nsecond\n")

	loader := &lineLoader{}
	s := asset.NewServer(dir, asset.WithLoaders(loader))

	whole := asset.Load[Text](s, "notes.txt")
	second := asset.Load[Text](s, "notes.txt#Line1")
	assert.Equal(t, asset.Loading, asset.LoadStateOf(s, whole))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	assert.Equal(t, asset.Loading, asset.LoadStateOf(s, whole), "state changes only at Update")

	events := s.Update()
	assert.Len(t, events, 2)

	text, ok := asset.Get(s, whole)
	require.True(t, ok)
	assert.Equal(t, "first\nsecond\n", text.Body)
	assert.Equal(t, "second", asset.MustGet(s, second).Body)
	assert.Equal(t, int32(1), loader.decodes.Load(), "labels of one file share one decode")
}

func TestLoadSamePathReturnsSameHandle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")
	loader := &lineLoader{}
	s := asset.NewServer(dir, asset.WithLoaders(loader))

	h1 := asset.Load[Text](s, "a.txt")
	h2 := asset.Load[Text](s, "./a.txt")
	assert.Equal(t, h1, h2)
	settle(t, s)

	h3 := asset.Load[Text](s, "a.txt#Line0")
	assert.NotEqual(t, h1, h3)
	settle(t, s)
	assert.Equal(t, asset.Loaded, asset.LoadStateOf(s, h3))
	assert.Equal(t, int32(1), loader.decodes.Load(), "a decoded file is not decoded again")
	assert.Equal(t, 2, s.Len())
}

func TestLoadWithOtherTypePanics(t *testing.T) {
	s := asset.NewServer(t.TempDir(), asset.WithLoaders(&lineLoader{}))
	asset.Load[Text](s, "a.txt")
	assert.Panics(t, func() {
		asset.Load[int](s, "a.txt")
	})
	settle(t, s)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "only")
	s := asset.NewServer(dir, asset.WithLoaders(&lineLoader{}))

	missingLabel := asset.Load[Text](s, "one.txt#Line7")
	noLoader := asset.Load[Text](s, "mesh.obj")
	missingFile := asset.Load[Text](s, "absent.txt")
	wrongType := asset.Load[int](s, "one.txt#Line0")

	events := settle(t, s)
	assert.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, asset.Failed, ev.State, ev.Path.String())
	}

	assert.ErrorIs(t, s.Err(missingLabel.Id()), asset.ErrLabelNotFound)
	assert.ErrorIs(t, s.Err(noLoader.Id()), asset.ErrNoLoader)
	assert.ErrorIs(t, s.Err(missingFile.Id()), os.ErrNotExist)
	assert.ErrorIs(t, s.Err(wrongType.Id()), asset.ErrTypeMismatch)

	_, ok := asset.Get(s, missingFile)
	assert.False(t, ok)
	assert.Panics(t, func() { asset.MustGet(s, missingFile) })

	// Nothing retries.
	assert.Empty(t, settle(t, s))
	assert.Equal(t, asset.Failed, asset.LoadStateOf(s, missingFile))
}

func TestAddAndGet(t *testing.T) {
	s := asset.NewServer(t.TempDir())
	h := asset.Add(s, Text{Body: "in memory"})

	assert.False(t, h.IsZero())
	assert.Equal(t, asset.Loaded, asset.LoadStateOf(s, h))
	assert.Equal(t, "in memory", asset.MustGet(s, h).Body)
	assert.Equal(t, asset.AssetPath{}, s.Path(h.Id()))

	var zero asset.Handle[Text]
	assert.True(t, zero.IsZero())
	assert.Equal(t, asset.NotLoaded, asset.LoadStateOf(s, zero))
}

func TestReloadReplacesValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "r.txt", "before")
	s := asset.NewServer(dir, asset.WithLoaders(&lineLoader{}))

	h := asset.Load[Text](s, "r.txt")
	settle(t, s)
	assert.Equal(t, "before", asset.MustGet(s, h).Body)

	writeFile(t, dir, "r.txt", "after")
	s.Reload("r.txt")
	s.Reload("never-requested.txt")
	events := settle(t, s)

	require.Len(t, events, 1)
	assert.True(t, events[0].Reloaded)
	assert.Equal(t, "after", asset.MustGet(s, h).Body)
	assert.Equal(t, 1, s.Generation(h.Id()))
}

func TestWatchReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "w.txt", "v1")
	s := asset.NewServer(dir, asset.WithLoaders(&lineLoader{}))
	defer s.Close()

	h := asset.Load[Text](s, "w.txt")
	settle(t, s)
	require.NoError(t, s.Watch())

	writeFile(t, dir, "w.txt", "v2")
	require.Eventually(t, func() bool {
		s.Update()
		text, ok := asset.Get(s, h)
		return ok && text.Body == "v2"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchSeesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	s := asset.NewServer(dir, asset.WithLoaders(&lineLoader{}))
	defer s.Close()

	h := asset.Load[Text](s, "levels/w.txt")
	settle(t, s)
	require.Equal(t, asset.Failed, asset.LoadStateOf(s, h))
	require.NoError(t, s.Watch())

	require.NoError(t, os.Mkdir(filepath.Join(dir, "levels"), 0o755))
	writeFile(t, filepath.Join(dir, "levels"), "w.txt", "late")
	require.Eventually(t, func() bool {
		s.Update()
		text, ok := asset.Get(s, h)
		return ok && text.Body == "late"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestPluginPublishesEvents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "p.txt", "plugin")

	a := app.New().AddPlugins(asset.Plugin{Root: dir, Loaders: []asset.Loader{&lineLoader{}}})
	server := asset.MustServer(a.Storage())
	assert.Equal(t, dir, server.Root())

	h := asset.Load[Text](server, "p.txt")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Wait(ctx))

	a.Update(1.0 / 60)
	assert.Equal(t, asset.Loaded, asset.LoadStateOf(server, h))

	var assets *asset.Assets
	require.True(t, a.Storage().ReadSingleton(&assets))
	require.Len(t, assets.Events, 1)
	assert.Equal(t, h.Id(), assets.Events[0].Id)

	a.Update(1.0 / 60)
	assert.Empty(t, assets.Events)
}

func TestServerOfWithoutPlugin(t *testing.T) {
	a := app.New()
	assert.Nil(t, asset.ServerOf(a.Storage()))
	assert.Panics(t, func() { asset.MustServer(a.Storage()) })
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", asset.ErrNoLoader), asset.ErrNoLoader))
}
