package render

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/rtsviewer/asset"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/transform"
)

// ambient is the shade of faces turned away from the light.
const ambient = 0.25

// Segment is a projected edge in screen pixels. Shade is in [0, 1].
type Segment struct {
	X0, Y0, X1, Y1 float32
	Shade          float32
}

// Project returns the screen-space edges of mesh placed by model, seen
// through viewProj on a width x height viewport. Triangles facing lightDir
// get a brighter shade. Edges with a corner behind the camera are dropped.
func Project(viewProj, model mgl32.Mat4, mesh *Mesh, lightDir mgl32.Vec3, width, height float32) []Segment {
	mvp := viewProj.Mul4(model)
	toLight := lightDir.Mul(-1)
	if toLight.Len() > 0 {
		toLight = toLight.Normalize()
	}

	screen := make([]mgl32.Vec3, len(mesh.Positions))
	visible := make([]bool, len(mesh.Positions))
	for i, p := range mesh.Positions {
		clip := mvp.Mul4x1(p.Vec4(1))
		if clip.W() <= 0 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		screen[i] = mgl32.Vec3{(ndc.X() + 1) * 0.5 * width, (1 - ndc.Y()) * 0.5 * height, ndc.Z()}
		visible[i] = true
	}

	segments := make([]Segment, 0, len(mesh.Indices))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		tri := [3]uint32{mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]}
		if int(max(tri[0], tri[1], tri[2])) >= len(mesh.Positions) {
			continue
		}

		a := model.Mul4x1(mesh.Positions[tri[0]].Vec4(1)).Vec3()
		b := model.Mul4x1(mesh.Positions[tri[1]].Vec4(1)).Vec3()
		c := model.Mul4x1(mesh.Positions[tri[2]].Vec4(1)).Vec3()
		normal := b.Sub(a).Cross(c.Sub(a))
		shade := float32(ambient)
		if normal.Len() > 0 {
			shade += (1 - ambient) * math32.Max(0, normal.Normalize().Dot(toLight))
		}

		for i := range 3 {
			p, q := tri[i], tri[(i+1)%3]
			if !visible[p] || !visible[q] {
				continue
			}
			segments = append(segments, Segment{
				X0: screen[p].X(), Y0: screen[p].Y(),
				X1: screen[q].X(), Y1: screen[q].Y(),
				Shade: shade,
			})
		}
	}
	return segments
}

// Drawer draws every Mesh3d from the active camera.
type Drawer struct {
	storage *ecs.Storage
	cameras *ecs.Query[struct {
		Camera *Camera3d
		Global *transform.GlobalTransform
	}]
	lights *ecs.Query[struct {
		Light  *DirectionalLight
		Global *transform.GlobalTransform
	}]
	meshes *ecs.Query[struct {
		Mesh   *Mesh3d
		Global *transform.GlobalTransform
	}]

	Background color.RGBA
	LineWidth  float32
}

func NewDrawer(storage *ecs.Storage) *Drawer {
	return &Drawer{
		storage: storage,
		cameras: ecs.NewQuery[struct {
			Camera *Camera3d
			Global *transform.GlobalTransform
		}](storage),
		lights: ecs.NewQuery[struct {
			Light  *DirectionalLight
			Global *transform.GlobalTransform
		}](storage),
		meshes: ecs.NewQuery[struct {
			Mesh   *Mesh3d
			Global *transform.GlobalTransform
		}](storage),
		Background: color.RGBA{24, 26, 32, 255},
		LineWidth:  1,
	}
}

// Segments projects the world for a width x height viewport. It returns
// nothing when there is no camera.
func (d *Drawer) Segments(width, height float32) ([]Segment, color.RGBA) {
	d.cameras.Execute()
	d.lights.Execute()
	d.meshes.Execute()

	var viewProj mgl32.Mat4
	found := false
	for _, cam := range d.cameras.Iter() {
		if !found || cam.Camera.Active {
			viewProj = cam.Camera.ViewProjection(*cam.Global, width/max(height, 1))
			found = true
		}
		if cam.Camera.Active {
			break
		}
	}
	if !found {
		return nil, color.RGBA{}
	}

	lightDir := mgl32.Vec3{0, -1, 0}
	tint := color.RGBA{255, 255, 255, 255}
	for _, l := range d.lights.Iter() {
		lightDir = l.Global.Forward()
		tint = l.Light.Color
		if tint == (color.RGBA{}) {
			tint = color.RGBA{255, 255, 255, 255}
		}
		break
	}

	server := asset.ServerOf(d.storage)
	if server == nil {
		return nil, tint
	}

	var segments []Segment
	for _, m := range d.meshes.Iter() {
		mesh, ok := asset.Get(server, m.Mesh.Handle)
		if !ok {
			continue
		}
		segments = append(segments, Project(viewProj, m.Global.Matrix, mesh, lightDir, width, height)...)
	}
	return segments, tint
}

// Draw renders the wireframe into screen.
func (d *Drawer) Draw(screen *ebiten.Image) {
	screen.Fill(d.Background)
	bounds := screen.Bounds()
	segments, tint := d.Segments(float32(bounds.Dx()), float32(bounds.Dy()))

	for _, s := range segments {
		clr := color.RGBA{
			R: uint8(float32(tint.R) * s.Shade),
			G: uint8(float32(tint.G) * s.Shade),
			B: uint8(float32(tint.B) * s.Shade),
			A: 255,
		}
		vector.StrokeLine(screen, s.X0, s.Y0, s.X1, s.Y1, d.LineWidth, clr, true)
	}
}
