package ecs_test

import (
	"fmt"

	"github.com/plus3/rtsviewer/ecs"
)

type idleReport struct {
	Players ecs.Query[struct {
		*Player
		Name *Name `ecs:"optional"`
	}]
	Unbound ecs.Query[struct {
		*Player
		*Tag
	}]
}

func (s *idleReport) Execute(frame *ecs.UpdateFrame) {
	named := 0
	for item := range s.Players.Values() {
		if item.Name != nil {
			named++
		}
	}
	fmt.Printf("players=%d named=%d tagged=%d\n", s.Players.Len(), named, s.Unbound.Len())
}

// ExampleQuery shows a system reading cached query results. The Scheduler
// executes every Query field before the system runs, so Len and Values
// reflect the storage as of the start of the system.
func ExampleQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Player{Clip: 0}, Name{Value: "fox"})
	storage.Spawn(Player{Clip: 1})
	storage.Spawn(Player{Clip: 2}, Tag("unbound"))

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&idleReport{})
	scheduler.Once(0)

	// Output:
	// players=3 named=1 tagged=1
}

// ExampleNewQuery uses a Query outside a Scheduler, where Execute must be
// called before reading results.
func ExampleNewQuery() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Player{Clip: 3}, Graph{Id: 7})

	query := ecs.NewQuery[struct {
		*Player
		*Graph
	}](storage)
	query.Execute()

	for item := range query.Values() {
		fmt.Printf("clip %d plays from graph %d\n", item.Player.Clip, item.Graph.Id)
	}

	storage.Spawn(Player{Clip: 4}, Graph{Id: 8})
	fmt.Println("before execute:", query.Len())
	query.Execute()
	fmt.Println("after execute:", query.Len())

	// Output:
	// clip 3 plays from graph 7
	// before execute: 1
	// after execute: 2
}
