// Package animation plays clips on animation players: a graph asset lists
// the playable nodes, AnimationPlayer tracks which nodes are active, and
// AnimationTransitions cross-fades between them.
package animation

import (
	"fmt"

	"github.com/plus3/rtsviewer/asset"
)

// AnimationClip is the playable description of one animation. Duration is in seconds.
type AnimationClip struct {
	Name     string
	Duration float32
	// Targets names the nodes the clip animates.
	Targets []string
}

// NodeIndex addresses a node of an AnimationGraph.
type NodeIndex int

// GraphNode is a node of an AnimationGraph. Blend nodes carry no clip.
type GraphNode struct {
	Clip    asset.Handle[AnimationClip]
	HasClip bool
	Weight  float32
	Parent  NodeIndex
}

// AnimationGraph is an asset listing the clips a player may run. Node 0 is
// the root blend node.
type AnimationGraph struct {
	Nodes []GraphNode
}

// NewAnimationGraph returns a graph holding only the root.
func NewAnimationGraph() AnimationGraph {
	return AnimationGraph{Nodes: []GraphNode{{Weight: 1, Parent: -1}}}
}

// Root returns the index of the root node.
func (g *AnimationGraph) Root() NodeIndex {
	return 0
}

// AddClip appends a clip node under parent and returns its index.
func (g *AnimationGraph) AddClip(clip asset.Handle[AnimationClip], weight float32, parent NodeIndex) NodeIndex {
	g.checkParent(parent)
	g.Nodes = append(g.Nodes, GraphNode{Clip: clip, HasClip: true, Weight: weight, Parent: parent})
	return NodeIndex(len(g.Nodes) - 1)
}

// AddClips appends one clip node per clip, in order, and returns their indices.
func (g *AnimationGraph) AddClips(clips []asset.Handle[AnimationClip], weight float32, parent NodeIndex) []NodeIndex {
	nodes := make([]NodeIndex, 0, len(clips))
	for _, clip := range clips {
		nodes = append(nodes, g.AddClip(clip, weight, parent))
	}
	return nodes
}

// AddBlend appends a clip-less node under parent.
func (g *AnimationGraph) AddBlend(weight float32, parent NodeIndex) NodeIndex {
	g.checkParent(parent)
	g.Nodes = append(g.Nodes, GraphNode{Weight: weight, Parent: parent})
	return NodeIndex(len(g.Nodes) - 1)
}

// FromClips builds a graph with every clip directly under the root at
// weight 1, returning the graph and the clip node indices in order.
func FromClips(clips []asset.Handle[AnimationClip]) (AnimationGraph, []NodeIndex) {
	g := NewAnimationGraph()
	nodes := g.AddClips(clips, 1, g.Root())
	return g, nodes
}

// Node returns the node at index i.
func (g *AnimationGraph) Node(i NodeIndex) (GraphNode, bool) {
	if i < 0 || int(i) >= len(g.Nodes) {
		return GraphNode{}, false
	}
	return g.Nodes[i], true
}

func (g *AnimationGraph) checkParent(parent NodeIndex) {
	if parent < 0 || int(parent) >= len(g.Nodes) {
		panic(fmt.Sprintf("animation graph has no node %d", parent))
	}
}

// AnimationGraphHandle is the component selecting the graph a player runs.
type AnimationGraphHandle struct {
	Handle asset.Handle[AnimationGraph]
}
