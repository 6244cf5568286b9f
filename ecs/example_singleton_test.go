package ecs_test

import (
	"fmt"

	"github.com/plus3/rtsviewer/ecs"
)

type ViewerConfig struct {
	Title string
	Width int
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons are global components not associated with any entity.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	config := ecs.NewSingleton[ViewerConfig](storage, ViewerConfig{
		Title: "viewer",
		Width: 1280,
	})
	fmt.Printf("%s %d\n", config.Get().Title, config.Get().Width)

	config.Get().Width = 1920

	var same *ViewerConfig
	storage.ReadSingleton(&same)
	fmt.Println(same.Width)

	// Output:
	// viewer 1280
	// 1920
}
