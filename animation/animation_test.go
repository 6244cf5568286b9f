package animation_test

import (
	"testing"
	"time"

	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphFromClips(t *testing.T) {
	s := asset.NewServer(t.TempDir())
	walk := asset.Add(s, animation.AnimationClip{Name: "Walk", Duration: 1})
	run := asset.Add(s, animation.AnimationClip{Name: "Run", Duration: 0.5})

	graph, nodes := animation.FromClips([]asset.Handle[animation.AnimationClip]{walk, run})
	assert.Equal(t, []animation.NodeIndex{1, 2}, nodes)
	require.Len(t, graph.Nodes, 3)

	n, ok := graph.Node(nodes[1])
	require.True(t, ok)
	assert.Equal(t, run, n.Clip)
	assert.Equal(t, graph.Root(), n.Parent)

	blend := graph.AddBlend(0.5, graph.Root())
	assert.Equal(t, animation.NodeIndex(3), blend)
	assert.Equal(t, animation.NodeIndex(4), graph.AddClip(walk, 1, blend))
	assert.Panics(t, func() { graph.AddClip(walk, 1, 42) })

	_, ok = graph.Node(-1)
	assert.False(t, ok)
}

func advance(t *testing.T, mode animation.RepeatMode, duration float32, steps int, dt float32) *animation.ActiveAnimation {
	t.Helper()
	s := asset.NewServer(t.TempDir())
	clip := asset.Add(s, animation.AnimationClip{Duration: duration})
	graph, nodes := animation.FromClips([]asset.Handle[animation.AnimationClip]{clip})

	var player animation.AnimationPlayer
	active := player.Play(nodes[0]).SetRepeat(mode)
	for range steps {
		animation.Advance(s, &graph, &player, dt)
	}
	return active
}

func TestRepeatModes(t *testing.T) {
	once := advance(t, animation.Never, 1, 5, 0.3)
	assert.True(t, once.IsFinished())
	assert.InDelta(t, 1.0, once.SeekTime(), 1e-6)
	assert.Equal(t, uint32(1), once.Completions())

	twice := advance(t, animation.Count(2), 1, 5, 0.3)
	assert.False(t, twice.IsFinished(), "1.5s into two cycles")
	assert.InDelta(t, 0.5, twice.SeekTime(), 1e-5)
	twice = advance(t, animation.Count(2), 1, 7, 0.3)
	assert.True(t, twice.IsFinished())

	loop := advance(t, animation.Forever, 1, 25, 0.1)
	assert.False(t, loop.IsFinished())
	assert.InDelta(t, 0.5, loop.SeekTime(), 1e-4)
	assert.InDelta(t, 2.5, loop.Elapsed(), 1e-4)
	assert.Equal(t, uint32(2), loop.Completions())
}

func TestPlayerPlayAndStart(t *testing.T) {
	var player animation.AnimationPlayer
	a := player.Play(1).SeekTo(0.75)
	assert.Same(t, a, player.Play(1), "Play keeps a running animation")
	assert.InDelta(t, 0.75, a.SeekTime(), 1e-6)

	b := player.Start(1)
	assert.Same(t, a, b)
	assert.Zero(t, b.SeekTime())

	player.Play(3)
	assert.Equal(t, []animation.NodeIndex{1, 3}, player.Playing())
	player.Stop(1)
	assert.False(t, player.IsPlaying(1))
	player.StopAll()
	assert.Empty(t, player.Playing())
	assert.True(t, player.AllFinished())
}

func TestTransitionsFade(t *testing.T) {
	a := app.New().AddPlugins(asset.Plugin{Root: t.TempDir()}, animation.Plugin{})
	server := asset.MustServer(a.Storage())

	walk := asset.Add(server, animation.AnimationClip{Name: "Walk", Duration: 1})
	run := asset.Add(server, animation.AnimationClip{Name: "Run", Duration: 1})
	graph, nodes := animation.FromClips([]asset.Handle[animation.AnimationClip]{walk, run})
	graphHandle := asset.Add(server, graph)

	var player animation.AnimationPlayer
	transitions := animation.NewAnimationTransitions()
	transitions.Play(&player, nodes[0], 0).Repeat()

	id := a.Storage().Spawn(player, animation.AnimationGraphHandle{Handle: graphHandle}, transitions)
	p := ecs.ReadComponent[animation.AnimationPlayer](a.Storage(), id)
	tr := ecs.ReadComponent[animation.AnimationTransitions](a.Storage(), id)

	tr.Play(p, nodes[1], time.Second).Repeat()
	main, ok := tr.Main()
	require.True(t, ok)
	assert.Equal(t, nodes[1], main)
	assert.Equal(t, 1, tr.Fading())

	a.Update(0.5)
	old, ok := p.Animation(nodes[0])
	require.True(t, ok)
	assert.InDelta(t, 0.5, old.Weight, 1e-5)

	a.Update(0.6)
	assert.False(t, p.IsPlaying(nodes[0]))
	assert.Zero(t, tr.Fading())

	current, ok := p.Animation(nodes[1])
	require.True(t, ok)
	assert.InDelta(t, 0.1, current.SeekTime(), 1e-5)
}

func TestPlayerWithoutGraphDoesNotAdvance(t *testing.T) {
	a := app.New().AddPlugins(asset.Plugin{Root: t.TempDir()}, animation.Plugin{})
	var player animation.AnimationPlayer
	player.Play(1)
	id := a.Storage().Spawn(player)

	a.Update(1)
	active, ok := ecs.ReadComponent[animation.AnimationPlayer](a.Storage(), id).Animation(1)
	require.True(t, ok)
	assert.Zero(t, active.Elapsed())
}
