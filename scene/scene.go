// Package scene instances loaded scene assets into entity hierarchies.
package scene

import (
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/transform"
)

// Name labels an entity for logs and the inspector.
type Name string

// Node is one node of a Scene.
type Node struct {
	Name      string
	Transform transform.Transform
	// Mesh is the path of the node's mesh asset, empty when it has none.
	Mesh     asset.AssetPath
	Children []int
	// AnimationRoot marks the node that receives the AnimationPlayer.
	AnimationRoot bool
}

// Scene is a loaded node forest. Roots indexes the top-level nodes.
type Scene struct {
	Name  string
	Nodes []Node
	Roots []int
}

// SceneRoot is the component requesting an instance of a scene asset.
type SceneRoot struct {
	Handle asset.Handle[Scene]
}

// SceneInstance marks a SceneRoot whose scene was spawned and lists the
// spawned node entities in depth-first order.
type SceneInstance struct {
	Entities []*ecs.EntityRef
}

// SceneFailed marks a SceneRoot whose scene asset failed to load.
type SceneFailed struct {
	Err error
}
