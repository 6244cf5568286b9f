package ecs_test

import (
	"fmt"

	"github.com/plus3/rtsviewer/ecs"
)

type Rig struct {
	Name string
}

type Claimed struct{}

type claimSystem struct {
	Rigs ecs.Added[Rig]
}

func (s *claimSystem) Execute(frame *ecs.UpdateFrame) {
	for id, rig := range s.Rigs.Iter() {
		fmt.Println("claiming", rig.Name)
		frame.Commands.AddComponent(id, Claimed{})
	}
}

// ExampleAdded shows edge-triggered processing: each Rig is reported once,
// in the first frame after it appears, even though the claim moves the
// entity to another archetype.
func ExampleAdded() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Rig](registry)
	ecs.RegisterComponent[Claimed](registry)

	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&claimSystem{})

	storage.Spawn(Rig{Name: "fox"})
	scheduler.Once(0)
	scheduler.Once(0)

	storage.Spawn(Rig{Name: "cube"})
	scheduler.Once(0)

	// Output:
	// claiming fox
	// claiming cube
}
