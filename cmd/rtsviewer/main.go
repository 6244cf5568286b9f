// Command rtsviewer opens a scene under an RTS camera and loops its first
// animation clip.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/plus3/rtsviewer/app"
	"github.com/plus3/rtsviewer/viewer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rtsviewer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rtsviewer", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML or TOML config file.")
	assets := fs.String("assets", "", "Asset root directory, overrides the config.")
	scenePath := fs.String("scene", "", "Scene file below the asset root, overrides the config.")
	headless := fs.Bool("headless", false, "Run without a window.")
	ticks := fs.Int("ticks", 0, "Stop after this many ticks when headless; 0 runs until interrupted.")
	debug := fs.Bool("debug", false, "Show the ImGui overlay.")
	hotReload := fs.Bool("hot-reload", false, "Reload assets when their files change.")
	logLevel := fs.String("log-level", "info", "One of debug, info, warn, error.")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := viewer.DefaultConfig()
	if *configPath != "" {
		loaded, err := viewer.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if *assets != "" {
		cfg.AssetRoot = *assets
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	if set["debug"] {
		cfg.Debug = *debug
	}
	if set["hot-reload"] {
		cfg.HotReload = *hotReload
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, _ := viewer.New(cfg, logger, !*headless)
	if *headless {
		a.SetRunner(app.HeadlessRunner(*ticks))
	}
	logger.Info("starting viewer", "scene", cfg.ScenePath(), "assets", cfg.AssetRoot, "headless", *headless)
	return a.Run(ctx)
}
