// Package gltfasset decodes glTF 2.0 files (.gltf and .glb) into scene,
// mesh and animation clip assets.
//
// A file publishes these labels:
//
//	Scene<i>          scene.Scene
//	Mesh<i>           render.Mesh
//	Animation<i>      animation.AnimationClip
//	Animation/<name>  animation.AnimationClip, for named animations
//
// The unlabeled path resolves to a Gltf summary.
package gltfasset

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/render"
	"github.com/plus3/rtsviewer/scene"
	"github.com/plus3/rtsviewer/transform"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Gltf lists the labeled assets of one file.
type Gltf struct {
	Scenes          []asset.AssetPath
	Meshes          []asset.AssetPath
	Animations      []asset.AssetPath
	NamedAnimations map[string]asset.AssetPath
	// DefaultScene indexes Scenes, -1 when the file has none.
	DefaultScene int
}

func SceneLabel(i int) string     { return fmt.Sprintf("Scene%d", i) }
func MeshLabel(i int) string      { return fmt.Sprintf("Mesh%d", i) }
func AnimationLabel(i int) string { return fmt.Sprintf("Animation%d", i) }

// NamedAnimationLabel is the label of the animation called name.
func NamedAnimationLabel(name string) string { return "Animation/" + name }

// Loader is the asset.Loader for glTF files.
type Loader struct{}

func (Loader) Extensions() []string {
	return []string{".gltf", ".glb"}
}

func (Loader) Load(ctx context.Context, lc *asset.LoadContext) (any, error) {
	doc, err := gltf.Open(lc.FullPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := asset.AssetPath{Path: lc.Path}
	summary := &Gltf{NamedAnimations: make(map[string]asset.AssetPath), DefaultScene: -1}

	for i, m := range doc.Meshes {
		mesh, err := readMesh(doc, m)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		lc.AddLabeled(MeshLabel(i), mesh)
		summary.Meshes = append(summary.Meshes, file.WithLabel(MeshLabel(i)))
	}

	animated := make(map[int]bool)
	for i, a := range doc.Animations {
		clip, err := readClip(doc, a, animated)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		lc.AddLabeled(AnimationLabel(i), clip)
		summary.Animations = append(summary.Animations, file.WithLabel(AnimationLabel(i)))

		if a.Name == "" {
			continue
		}
		if _, dup := summary.NamedAnimations[a.Name]; dup {
			continue
		}
		named := &animation.AnimationClip{Name: clip.Name, Duration: clip.Duration, Targets: clip.Targets}
		lc.AddLabeled(NamedAnimationLabel(a.Name), named)
		summary.NamedAnimations[a.Name] = file.WithLabel(NamedAnimationLabel(a.Name))
	}
	for i, n := range doc.Nodes {
		if n.Skin != nil {
			animated[i] = true
		}
	}

	for i, sc := range doc.Scenes {
		s := readScene(doc, sc, file, animated)
		if s.Name == "" {
			s.Name = SceneLabel(i)
		}
		lc.AddLabeled(SceneLabel(i), s)
		summary.Scenes = append(summary.Scenes, file.WithLabel(SceneLabel(i)))
	}
	if len(doc.Scenes) > 0 {
		summary.DefaultScene = 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			summary.DefaultScene = *doc.Scene
		}
	}
	return summary, nil
}

func readMesh(doc *gltf.Document, m *gltf.Mesh) (*render.Mesh, error) {
	mesh := &render.Mesh{}
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, err
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, err
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		base := uint32(len(mesh.Positions))
		for _, p := range positions {
			mesh.Positions = append(mesh.Positions, mgl32.Vec3(p))
		}
		for _, idx := range indices {
			mesh.Indices = append(mesh.Indices, base+idx)
		}
	}
	return mesh, nil
}

// readClip records the clip duration as the largest sampler input time and
// marks every targeted node in animated.
func readClip(doc *gltf.Document, a *gltf.Animation, animated map[int]bool) (*animation.AnimationClip, error) {
	clip := &animation.AnimationClip{Name: a.Name}
	for _, s := range a.Samplers {
		if s.Input >= len(doc.Accessors) {
			return nil, fmt.Errorf("sampler input accessor %d out of range", s.Input)
		}
		end, err := inputEnd(doc, doc.Accessors[s.Input])
		if err != nil {
			return nil, err
		}
		if end > clip.Duration {
			clip.Duration = end
		}
	}

	seen := make(map[int]bool)
	for _, ch := range a.Channels {
		if ch.Target.Node == nil {
			continue
		}
		node := *ch.Target.Node
		animated[node] = true
		if seen[node] || node >= len(doc.Nodes) {
			continue
		}
		seen[node] = true
		clip.Targets = append(clip.Targets, doc.Nodes[node].Name)
	}
	return clip, nil
}

// inputEnd returns the last keyframe time of a sampler input, preferring the
// accessor's declared max.
func inputEnd(doc *gltf.Document, acc *gltf.Accessor) (float32, error) {
	if len(acc.Max) > 0 {
		return float32(acc.Max[0]), nil
	}
	data, err := modeler.ReadAccessor(doc, acc, nil)
	if err != nil {
		return 0, err
	}
	times, ok := data.([]float32)
	if !ok {
		return 0, fmt.Errorf("sampler input is %T, want []float32", data)
	}
	var end float32
	for _, t := range times {
		end = max(end, t)
	}
	return end, nil
}

func readScene(doc *gltf.Document, sc *gltf.Scene, file asset.AssetPath, animated map[int]bool) *scene.Scene {
	s := &scene.Scene{Name: sc.Name}
	// Node indices in the file map to indices in s.Nodes.
	local := make(map[int]int)

	var visit func(index int) (int, bool)
	visit = func(index int) (int, bool) {
		n := doc.Nodes[index]
		at := len(s.Nodes)
		local[index] = at
		s.Nodes = append(s.Nodes, scene.Node{Name: n.Name, Transform: nodeTransform(n)})
		if n.Mesh != nil {
			s.Nodes[at].Mesh = file.WithLabel(MeshLabel(*n.Mesh))
		}

		subtreeAnimated := animated[index]
		for _, child := range n.Children {
			if _, cycle := local[child]; cycle || child >= len(doc.Nodes) {
				continue
			}
			childAt, childAnimated := visit(child)
			s.Nodes[at].Children = append(s.Nodes[at].Children, childAt)
			subtreeAnimated = subtreeAnimated || childAnimated
		}
		return at, subtreeAnimated
	}

	for _, root := range sc.Nodes {
		if _, cycle := local[root]; cycle || root >= len(doc.Nodes) {
			continue
		}
		at, isAnimated := visit(root)
		s.Nodes[at].AnimationRoot = isAnimated
		s.Roots = append(s.Roots, at)
	}
	return s
}

func nodeTransform(n *gltf.Node) transform.Transform {
	if n.Matrix != [16]float64{} && n.Matrix != gltf.DefaultMatrix {
		return decompose(n.Matrix)
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return transform.Transform{
		Translation: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation:    mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:       mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
}

// decompose splits a column-major TRS matrix without shear.
func decompose(m [16]float64) transform.Transform {
	var mat mgl32.Mat4
	for i := range m {
		mat[i] = float32(m[i])
	}

	scale := mgl32.Vec3{mat.Col(0).Vec3().Len(), mat.Col(1).Vec3().Len(), mat.Col(2).Vec3().Len()}
	var rot mgl32.Mat4
	for c := range 3 {
		col := mat.Col(c).Vec3()
		if scale[c] != 0 {
			col = col.Mul(1 / scale[c])
		}
		rot.SetCol(c, col.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	return transform.Transform{
		Translation: mat.Col(3).Vec3(),
		Rotation:    mgl32.Mat4ToQuat(rot).Normalize(),
		Scale:       scale,
	}
}

// Plugin registers Loader with the asset server.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	asset.MustServer(a.Storage()).RegisterLoader(Loader{})
}
