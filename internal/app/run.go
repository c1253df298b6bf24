package app

import (
	"context"
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"

	"yashubustudio/produktberater/catalog"
	"yashubustudio/produktberater/internal/logging"
)

const fyneAppID = "studio.yashubu.produktberater"

// Run loads the configuration and starts the desktop window.
func Run(configPath string) error {
	cfg, err := catalog.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logBind := binding.NewString()
	logger := logging.New(logging.Config{
		Level: cfg.LogLevel,
		Extra: newLogCapture(logBind, 300),
	})
	defer func() { _ = logger.Sync() }()

	svc := catalog.NewService(cfg, logger)
	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, logBind, logger)
	u.configPath = configPath
	u.reload()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Watch {
		u.startWatch(ctx)
		defer u.stopWatch()
	}

	u.w.ShowAndRun()
	return nil
}
