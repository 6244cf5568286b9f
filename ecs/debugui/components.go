package debugui

// PerformanceStatsComponent holds the frame time ring buffer rendered by the
// performance panel.
type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
