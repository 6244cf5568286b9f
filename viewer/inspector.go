package viewer

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/ecs/debugui"
	"github.com/plus3/rtsviewer/rtscamera"
	"github.com/plus3/rtsviewer/scene"
)

// InspectorLines describes the camera and every claimed player, one line each.
func InspectorLines(storage *ecs.Storage, attach *AnimationAttachmentSystem) []string {
	var lines []string

	cameras := ecs.NewQuery[struct{ Camera *rtscamera.RtsCamera }](storage)
	cameras.Execute()
	for cam := range cameras.Values() {
		c := cam.Camera
		lines = append(lines, fmt.Sprintf("camera focus=(%.1f, %.1f, %.1f) zoom=%.2f height=%.1f",
			c.Focus.X(), c.Focus.Y(), c.Focus.Z(), c.Zoom, c.Height(c.Zoom)))
	}

	players := ecs.NewView[struct {
		Player *animation.AnimationPlayer
		Name   *scene.Name `ecs:"optional"`
	}](storage)
	for _, ref := range attach.Claimed() {
		p := players.GetRef(ref)
		if p == nil {
			continue
		}
		name := fmt.Sprintf("entity %d", uint64(ref.Id))
		if p.Name != nil {
			name = string(*p.Name)
		}
		for _, node := range p.Player.Playing() {
			active, _ := p.Player.Animation(node)
			lines = append(lines, fmt.Sprintf("%s node=%d elapsed=%.2fs repeat=%s",
				name, int(node), active.Elapsed(), active.RepeatMode()))
		}
	}
	return lines
}

// SpawnInspector spawns the ImGui window listing InspectorLines.
func SpawnInspector(storage *ecs.Storage, attach *AnimationAttachmentSystem) {
	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			if !imgui.BeginV("Viewer", nil, imgui.WindowFlagsNone) {
				imgui.End()
				return
			}
			imgui.Text(fmt.Sprintf("Animated entities: %d", len(attach.Claimed())))
			imgui.Separator()
			for _, line := range InspectorLines(storage, attach) {
				imgui.Text(line)
			}
			imgui.End()
		},
	})
}
