// Command scene-stress measures the viewer's tick cost while animation
// players keep appearing, the way scene instancing produces them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/scene"
	"github.com/plus3/rtsviewer/transform"
	"github.com/plus3/rtsviewer/viewer"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The number of animated entities to spawn.")
	perTick := flag.Int("per-tick", 100, "How many entities appear each tick until all are spawned.")
	assetRoot := flag.String("assets", os.TempDir(), "Asset root. The scene does not need to exist.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger.Warn("starting scene stress test", "entities", *entityCount, "per_tick", *perTick, "duration", *duration)

	cfg := viewer.DefaultConfig()
	cfg.AssetRoot = *assetRoot
	// Scene load errors are expected; keep them off the console.
	a, plugin := viewer.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	a.Startup()
	storage := a.Storage()

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		PerTick:        *perTick,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := startTime
	spawned := 0

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			for i := 0; i < *perTick && spawned < *entityCount; i++ {
				storage.Spawn(
					animation.AnimationPlayer{},
					transform.Identity(),
					transform.GlobalTransform{},
					scene.Name(fmt.Sprintf("Rig%d", spawned)),
				)
				spawned++
			}

			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			a.Update(deltaTime.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Spawned = spawned
	report.Claimed = len(plugin.Attachments().Claimed())
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to generate report", "error", err)
		os.Exit(1)
	}
	if report.Claimed != spawned {
		logger.Error("not every entity was claimed", "spawned", spawned, "claimed", report.Claimed)
		os.Exit(1)
	}
}
