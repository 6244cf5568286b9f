package ecs_test

import (
	"testing"

	"github.com/plus3/rtsviewer/ecs"
	"github.com/stretchr/testify/assert"
)

type addedRecorder struct {
	Players ecs.Added[Player]
	seen    [][]int
}

func (s *addedRecorder) Execute(frame *ecs.UpdateFrame) {
	var clips []int
	for id, player := range s.Players.Iter() {
		clips = append(clips, player.Clip)
		frame.Commands.AddComponent(id, Graph{Id: player.Clip})
	}
	s.seen = append(s.seen, clips)
}

type spawnOnce struct {
	done bool
}

func (s *spawnOnce) Execute(frame *ecs.UpdateFrame) {
	if s.done {
		return
	}
	s.done = true
	frame.Commands.Spawn(Player{Clip: 3})
}

func TestAddedReportsEachComponentOnce(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	recorder := &addedRecorder{}
	scheduler.Register(recorder)

	storage.Spawn(Player{Clip: 1})
	scheduler.Once(0)
	scheduler.Once(0)

	storage.Spawn(Player{Clip: 2}, Name{Value: "late"})
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, [][]int{{1}, nil, {2}, nil}, recorder.seen)
}

func TestAddedSeesComponentsAddedToExistingEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	recorder := &addedRecorder{}
	scheduler.Register(recorder)

	id := storage.Spawn(Name{Value: "rig"})
	scheduler.Once(0)

	storage.AddComponent(id, Player{Clip: 4})
	scheduler.Once(0)

	assert.Equal(t, [][]int{nil, {4}}, recorder.seen)
}

func TestAddedSeesCommandSpawnsNextFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	recorder := &addedRecorder{}

	// The recorder runs before the spawner within a frame.
	scheduler.Register(recorder)
	scheduler.Register(&spawnOnce{})

	scheduler.Once(0)
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, [][]int{nil, {3}, nil}, recorder.seen)
}

func TestAddedOutsideScheduler(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	added := ecs.NewAdded[Player](storage)

	assert.Panics(t, func() { added.Iter() })

	storage.Spawn(Player{Clip: 1})
	added.Refresh(0, storage.Tick())
	assert.Equal(t, 1, added.Len())

	added.Refresh(storage.Tick(), storage.Tick())
	assert.Equal(t, 0, added.Len())
}
