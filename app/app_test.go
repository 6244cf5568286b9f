package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	startup int
	update  int
	post    int
	order   []string
}

type counterPlugin struct {
	c *counter
}

func (p counterPlugin) Build(a *app.App) {
	a.AddSystems(app.Startup, ecs.SystemFunc(func(*ecs.UpdateFrame) {
		p.c.startup++
		p.c.order = append(p.c.order, "startup")
	}))
	a.AddSystems(app.Update, ecs.SystemFunc(func(*ecs.UpdateFrame) {
		p.c.update++
		p.c.order = append(p.c.order, "update")
	}))
	a.AddSystems(app.PostUpdate, ecs.SystemFunc(func(*ecs.UpdateFrame) {
		p.c.post++
		p.c.order = append(p.c.order, "post")
	}))
}

func TestAppSchedules(t *testing.T) {
	c := &counter{}
	a := app.New().AddPlugins(counterPlugin{c: c})
	require.True(t, a.HasPlugin(counterPlugin{}))

	a.Update(0.1)
	a.Update(0.1)
	a.Startup()

	assert.Equal(t, 1, c.startup)
	assert.Equal(t, 2, c.update)
	assert.Equal(t, 2, c.post)
	assert.Equal(t, []string{"startup", "update", "post", "update", "post"}, c.order)
	assert.Equal(t, uint64(2), a.Ticks())
}

func TestAppDuplicatePluginPanics(t *testing.T) {
	a := app.New().AddPlugins(counterPlugin{c: &counter{}})
	assert.PanicsWithValue(t, "plugin app_test.counterPlugin added twice", func() {
		a.AddPlugins(counterPlugin{c: &counter{}})
	})

	built := 0
	fn := app.PluginFunc(func(*app.App) { built++ })
	a.AddPlugins(fn, fn)
	assert.Equal(t, 2, built)
}

func TestHeadlessRunnerStopsAfterMaxTicks(t *testing.T) {
	c := &counter{}
	a := app.New(app.WithTickRate(1000)).AddPlugins(counterPlugin{c: c})
	a.SetRunner(app.HeadlessRunner(5))

	shutdown := 0
	a.OnShutdown(func() error {
		shutdown++
		return nil
	})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 5, c.update)
	assert.Equal(t, 1, c.startup)
	assert.Equal(t, 1, shutdown)
}

func TestHeadlessRunnerExitRequest(t *testing.T) {
	boom := errors.New("boom")
	a := app.New(app.WithTickRate(1000))
	a.AddSystems(app.Update, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		app.RequestExit(frame.Storage, boom)
	}))
	a.OnShutdown(func() error { return errors.New("close failed") })

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "close failed")
	assert.Equal(t, uint64(1), a.Ticks())
}

func TestHeadlessRunnerContextCancel(t *testing.T) {
	a := app.New(app.WithTickRate(1000))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, a.Run(ctx))
	assert.NotZero(t, a.Ticks())
}

func TestUnknownSchedulePanics(t *testing.T) {
	a := app.New()
	assert.PanicsWithValue(t, "unknown schedule Schedule(9)", func() {
		a.Scheduler(app.Schedule(9))
	})
}
