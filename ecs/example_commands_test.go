package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/rtsviewer/ecs"
)

type bindSystem struct {
	Players ecs.Added[Player]
}

func (s *bindSystem) Execute(frame *ecs.UpdateFrame) {
	for id := range s.Players.Iter() {
		// The first add moves the entity; the second still lands on it.
		frame.Commands.AddComponent(id, Graph{Id: 1})
		frame.Commands.AddComponent(id, Tag("looping"))
	}
	fmt.Printf("queued %d operations\n", frame.Commands.Len())
}

// ExampleCommands binds every new player to a graph and a transition tag in
// a single flush. Both adds are queued with the id seen during iteration;
// the flush follows the entity across archetype moves.
func ExampleCommands() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Player{Clip: 0}, Name{Value: "fox"})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&bindSystem{})
	scheduler.Once(0)

	bound := ecs.NewQuery[struct {
		*Name
		*Graph
		*Tag
	}](storage)
	bound.Execute()
	for item := range bound.Values() {
		fmt.Printf("%s: graph=%d tag=%s\n", item.Name.Value, item.Graph.Id, *item.Tag)
	}

	// Output:
	// queued 2 operations
	// fox: graph=1 tag=looping
}

// ExampleCommands_Flush drives a zero-value Commands by hand. Queued spawns
// and adds are invisible until Flush applies them.
func ExampleCommands_Flush() {
	storage := ecs.NewStorage(newTestRegistry())
	player := storage.Spawn(Player{Clip: 2})

	var commands ecs.Commands
	commands.AddComponent(player, Graph{Id: 5})
	commands.SpawnThen(func(id ecs.EntityId) {
		fmt.Println("spawned light:", storage.Exists(id))
	}, Name{Value: "light"})
	fmt.Println("has graph before flush:", storage.HasComponent(player, reflect.TypeFor[Graph]()))

	commands.Flush(storage)
	fmt.Println("pending after flush:", commands.Len())

	// Output:
	// has graph before flush: false
	// spawned light: true
	// pending after flush: 0
}
