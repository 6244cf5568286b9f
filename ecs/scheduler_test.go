package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/rtsviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for _, item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type HealthSystem struct {
	Entities     ecs.Query[struct{ *Health }]
	Config       ecs.Singleton[Tag]
	ExecuteCount int
	TotalHealth  int
	LastTag      Tag
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for item := range s.Entities.Values() {
		s.TotalHealth += item.Health.Current
	}
	if tag := s.Config.Get(); tag != nil {
		s.LastTag = *tag
	}
}

type unexportedParamSystem struct {
	entities ecs.Query[struct{ *Health }]
}

func (s *unexportedParamSystem) Execute(*ecs.UpdateFrame) {}

func TestScheduler(t *testing.T) {
	registry := newTestRegistry()

	t.Run("system execution order and query initialization", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		health := &HealthSystem{}
		scheduler.Register(movement)
		scheduler.Register(health)
		require.Equal(t, 2, scheduler.Len())

		storage.Spawn(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 2})
		storage.Spawn(Health{Current: 100, Max: 100})

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
		assert.Equal(t, 100, health.TotalHealth)
	})

	t.Run("queries see entities spawned between frames", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		storage.Spawn(Health{Current: 50, Max: 100})
		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(1.0)
		assert.Equal(t, 50, health.TotalHealth)

		storage.Spawn(Health{Current: 25, Max: 100})
		scheduler.Once(1.0)
		assert.Equal(t, 75, health.TotalHealth)
	})

	t.Run("singleton added after registration", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(0)
		assert.Equal(t, Tag(""), health.LastTag)

		storage.AddSingleton(Tag("ready"))
		scheduler.Once(0)
		assert.Equal(t, Tag("ready"), health.LastTag)
	})

	t.Run("delta time", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		id := storage.Spawn(Position{}, Velocity{DX: 10, DY: 20})
		scheduler.Register(&MovementSystem{})
		scheduler.Once(0.5)

		pos := ecs.ReadComponent[Position](storage, id)
		assert.Equal(t, float32(5), pos.X)
		assert.Equal(t, float32(10), pos.Y)
	})

	t.Run("system func", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		calls := 0
		scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
			calls++
			frame.Commands.Spawn(Name{Value: "x"})
		}))
		scheduler.Once(0)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
	})

	t.Run("unexported parameter fields are rejected", func(t *testing.T) {
		scheduler := ecs.NewScheduler(ecs.NewStorage(registry))
		assert.Panics(t, func() { scheduler.Register(&unexportedParamSystem{}) })
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			scheduler.Run(ctx, time.Millisecond)
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		assert.NotZero(t, movement.ExecuteCount)
	})
}
