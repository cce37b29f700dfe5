package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/meshlens/pkg/config"
	"github.com/chazu/meshlens/pkg/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(config.Resolve(""))
	if err != nil {
		logging.Default().Fatal("load config", "err", err)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level)
	logging.SetDefault(logger)

	app := NewApp(cfg, logger)

	err = wails.Run(&options.App{
		Title:  "meshlens",
		Width:  1280,
		Height: 860,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Fatal("wails", "err", err)
	}
}
