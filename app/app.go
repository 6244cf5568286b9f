// Package app hosts an ECS world: it owns the component registry and storage,
// collects plugins, and drives the Startup and Update schedules.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/plus3/rtsviewer/ecs"
)

// Schedule names a group of systems that run together.
type Schedule int

const (
	// Startup systems run once, before the first Update.
	Startup Schedule = iota
	// Update systems run every tick.
	Update
	// PostUpdate systems run every tick after Update and its command flush.
	PostUpdate
)

var scheduleOrder = [...]Schedule{Startup, Update, PostUpdate}

func (s Schedule) String() string {
	switch s {
	case Startup:
		return "Startup"
	case Update:
		return "Update"
	case PostUpdate:
		return "PostUpdate"
	}
	return fmt.Sprintf("Schedule(%d)", int(s))
}

// Plugin configures an App: registers components, inserts singletons and adds systems.
type Plugin interface {
	Build(app *App)
}

// PluginFunc adapts a function to the Plugin interface. Function plugins are
// not checked for duplicates.
type PluginFunc func(app *App)

// Build calls f(app).
func (f PluginFunc) Build(app *App) {
	f(app)
}

// Runner drives the App after Startup until it returns.
type Runner func(ctx context.Context, app *App) error

// Exit is the singleton a system sets to stop the runner.
type Exit struct {
	Requested bool
	Err       error
}

// App is the application host.
type App struct {
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	schedules map[Schedule]*ecs.Scheduler
	exit      *ecs.Singleton[Exit]

	plugins  map[reflect.Type]struct{}
	runner   Runner
	shutdown []func() error

	tickRate int
	logger   *slog.Logger
	started  bool
	ticks    uint64
}

// Option configures an App.
type Option func(*App)

// WithTickRate sets the headless tick rate in ticks per second.
func WithTickRate(rate int) Option {
	return func(a *App) {
		if rate > 0 {
			a.tickRate = rate
		}
	}
}

// WithLogger sets the logger handed to plugins.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an App with empty schedules and the headless runner.
func New(opts ...Option) *App {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Exit](registry)
	storage := ecs.NewStorage(registry)

	a := &App{
		registry:  registry,
		storage:   storage,
		schedules: make(map[Schedule]*ecs.Scheduler, len(scheduleOrder)),
		exit:      ecs.NewSingleton[Exit](storage),
		plugins:   make(map[reflect.Type]struct{}),
		runner:    HeadlessRunner(0),
		tickRate:  60,
		logger:    slog.Default(),
	}
	for _, s := range scheduleOrder {
		a.schedules[s] = ecs.NewScheduler(storage)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the component registry. Plugins register their
// component types here inside Build.
func (a *App) Registry() *ecs.ComponentRegistry { return a.registry }

// Storage returns the world storage.
func (a *App) Storage() *ecs.Storage { return a.storage }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Scheduler returns the scheduler backing a schedule.
func (a *App) Scheduler(s Schedule) *ecs.Scheduler {
	scheduler, ok := a.schedules[s]
	if !ok {
		panic("unknown schedule " + s.String())
	}
	return scheduler
}

// Ticks returns the number of completed Update ticks.
func (a *App) Ticks() uint64 { return a.ticks }

// TickInterval is the wall-clock period of one headless tick.
func (a *App) TickInterval() time.Duration {
	return time.Second / time.Duration(a.tickRate)
}

// AddPlugins builds each plugin in order. Adding the same plugin type twice panics.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		if _, isFunc := p.(PluginFunc); !isFunc {
			typ := reflect.TypeOf(p)
			if _, dup := a.plugins[typ]; dup {
				panic("plugin " + typ.String() + " added twice")
			}
			a.plugins[typ] = struct{}{}
		}
		p.Build(a)
	}
	return a
}

// HasPlugin reports whether a plugin of the same type as p has been added.
func (a *App) HasPlugin(p Plugin) bool {
	_, ok := a.plugins[reflect.TypeOf(p)]
	return ok
}

// AddSystems appends systems to a schedule, in order.
func (a *App) AddSystems(s Schedule, systems ...ecs.System) *App {
	scheduler := a.Scheduler(s)
	for _, system := range systems {
		scheduler.Register(system)
	}
	return a
}

// InsertResource stores value as a singleton. The type must be registered.
func (a *App) InsertResource(value any) *App {
	a.storage.AddSingleton(value)
	return a
}

// SetRunner replaces the runner used by Run.
func (a *App) SetRunner(r Runner) {
	a.runner = r
}

// OnShutdown registers fn to run when Run returns, in reverse order of registration.
func (a *App) OnShutdown(fn func() error) {
	a.shutdown = append(a.shutdown, fn)
}

// Startup runs the Startup schedule the first time it is called.
func (a *App) Startup() {
	if a.started {
		return
	}
	a.started = true
	a.schedules[Startup].Once(0)
}

// Update runs one tick: Startup if it has not run yet, then Update and PostUpdate.
func (a *App) Update(dt float64) {
	a.Startup()
	a.schedules[Update].Once(dt)
	a.schedules[PostUpdate].Once(dt)
	a.ticks++
}

// RequestExit asks the runner to stop after the current tick.
func (a *App) RequestExit(err error) {
	RequestExit(a.storage, err)
}

// RequestExit sets the Exit singleton on storage; for use inside systems.
func RequestExit(storage *ecs.Storage, err error) {
	storage.AddSingleton(Exit{Requested: true, Err: err})
}

// ExitRequested reports whether a system asked to stop, and with which error.
func (a *App) ExitRequested() (bool, error) {
	exit := a.exit.Get()
	if exit == nil {
		return false, nil
	}
	return exit.Requested, exit.Err
}

// Run runs Startup, hands control to the runner and then runs the shutdown hooks.
func (a *App) Run(ctx context.Context) error {
	a.Startup()
	err := a.runner(ctx, a)

	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if serr := a.shutdown[i](); serr != nil {
			err = errors.Join(err, serr)
		}
	}
	return err
}

// HeadlessRunner ticks the App at its tick rate until ctx is done, a system
// requests exit, or maxTicks ticks have run (0 means no limit).
func HeadlessRunner(maxTicks int) Runner {
	return func(ctx context.Context, a *App) error {
		ticker := time.NewTicker(a.TickInterval())
		defer ticker.Stop()

		lastTime := time.Now()
		ran := 0
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				a.Update(now.Sub(lastTime).Seconds())
				lastTime = now
				ran++

				if requested, err := a.ExitRequested(); requested {
					return err
				}
				if maxTicks > 0 && ran >= maxTicks {
					return nil
				}
			}
		}
	}
}
