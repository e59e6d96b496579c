package main

import (
	"embed"
	"log"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/trazo/pkg/config"
	"github.com/chazu/trazo/pkg/sketch"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("TRAZO_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	app := NewAppWithConfig(cfg)

	err = wails.Run(&options.App{
		Title:  "trazo",
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 255},
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}
