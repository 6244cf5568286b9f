package debugui

import "github.com/plus3/rtsviewer/ecs"

// RegisterDebugUIComponents registers every component and singleton type the
// package spawns.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// SpawnPerformancePanel spawns the performance statistics window. The panel
// reports storage occupancy and, when scheduler is not nil, per-system timings.
func SpawnPerformancePanel(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	panel := NewPerformanceStatsComponent(120)
	timer := NewFrameTimer()
	storage.Spawn(ImguiItem{
		Render: func() {
			panel.Render(storage, scheduler, timer.GetDeltaTime())
		},
	})
}
