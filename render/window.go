package render

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/ecs"
	"github.com/plus3/rtsviewer/ecs/debugui"
	debugui_ebiten "github.com/plus3/rtsviewer/ecs/debugui/ebiten"
	"github.com/plus3/rtsviewer/input"
)

// WindowPlugin opens an ebiten window and drives the App from its game loop.
type WindowPlugin struct {
	Title  string
	Width  int
	Height int
	// Debug shows the Dear ImGui overlay: the performance panel and every
	// debugui.ImguiItem.
	Debug bool
}

func (p WindowPlugin) Build(a *app.App) {
	if p.Width <= 0 || p.Height <= 0 {
		p.Width, p.Height = 1280, 720
	}
	if p.Title == "" {
		p.Title = "rtsviewer"
	}

	if p.Debug {
		debugui.RegisterDebugUIComponents(a.Registry())
		a.InsertResource(debugui.ImguiInputState{})
		a.AddSystems(app.PostUpdate, &debugui.ImguiSystem{})
	}
	a.SetRunner(p.runner)
}

func (p WindowPlugin) runner(ctx context.Context, a *app.App) error {
	game := &Game{
		app:    a,
		ctx:    ctx,
		drawer: NewDrawer(a.Storage()),
		kb:     ecs.NewSingleton[input.Keyboard](a.Storage()),
		mouse:  ecs.NewSingleton[input.Mouse](a.Storage()),
		imgui:  ecs.NewSingleton[debugui.ImguiInputState](a.Storage()),
		width:  p.Width,
		height: p.Height,
	}

	if p.Debug {
		backend := debugui_ebiten.NewImguiBackend(p.Title, p.Width, p.Height)
		game.backend = &backend
		debugui.SpawnPerformancePanel(a.Storage(), a.Scheduler(app.Update))
	} else {
		ebiten.SetWindowSize(p.Width, p.Height)
		ebiten.SetWindowTitle(p.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(time.Second / a.TickInterval()))

	err := ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return game.exitErr
	}
	return err
}

// Game implements ebiten.Game around an App.
type Game struct {
	app     *app.App
	ctx     context.Context
	drawer  *Drawer
	backend *debugui_ebiten.ImguiBackend
	kb      *ecs.Singleton[input.Keyboard]
	mouse   *ecs.Singleton[input.Mouse]
	imgui   *ecs.Singleton[debugui.ImguiInputState]
	exitErr error

	width, height int
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	input.SampleEbiten(g.kb.Get(), g.mouse.Get(), g.width, g.height)
	if kb := g.kb.Get(); kb != nil && kb.JustPressed(input.KeyEscape) {
		return ebiten.Termination
	}

	if g.backend != nil {
		g.backend.BeginFrame()
		// Update systems see this frame's capture flags.
		debugui.SampleInputState(g.imgui.Get())
	}
	g.app.Update(1.0 / float64(ebiten.TPS()))
	if g.backend != nil {
		g.backend.EndFrame()
	}

	if requested, err := g.app.ExitRequested(); requested {
		g.exitErr = err
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawer.Draw(screen)
	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
