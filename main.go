// Package main provides the entry point for the Detailist desktop application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"detailist/internal/app"
	"detailist/internal/capture"
	"detailist/internal/config"
	dimage "detailist/internal/image"
	"detailist/internal/logger"
	"detailist/internal/ocr"
	"detailist/internal/version"
	"detailist/ui/mainwindow"
	"detailist/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog"
)

const (
	appID          = "io.github.detailist"
	reloadInterval = 2 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Path to a detailist.yaml config file")
	showVersion := flag.Bool("version", false, "Print the version and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [slot1-image [slot2-image]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewConsole(level)
	log.Info().Str("version", version.Version).Str("config", cfg.File).Msg("starting " + version.Name)

	compareCfg, err := cfg.CompareConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid comparison settings")
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithBounds(cfg.Bounds()),
		app.WithSteps(cfg.Steps()),
		app.WithCompareConfig(compareCfg),
		app.WithDebounce(cfg.Debounce),
	}
	engine, err := ocr.NewEngine(cfg.OCR.Language, log)
	if err != nil {
		log.Warn().Err(err).Msg("text recognition disabled")
	} else {
		defer engine.Close()
		opts = append(opts, app.WithRecognizer(engine))
	}

	state, err := app.NewState(opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session")
	}
	defer state.Close()

	appPrefs := prefs.Load()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&mainwindow.DetailistTheme{})

	win := mainwindow.New(fyneApp, state, capture.NewScreenProvider(log), appPrefs, log)
	win.SetTitle(version.String())
	win.SetMaster()

	// Image files on the command line fill the slots in order.
	for _, path := range flag.Args() {
		buf, err := dimage.Load(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to load image")
			continue
		}
		if _, err := state.Capture(buf); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to fill slot")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Dev.HotReload {
		setupHotReload(ctx, win, appPrefs, log)
	}

	win.ShowAndRun()

	if err := appPrefs.Save(); err != nil {
		log.Warn().Err(err).Str("path", appPrefs.Path()).Msg("failed to save preferences")
	}
}

// setupHotReload offers a restart when the binary is rebuilt.
func setupHotReload(ctx context.Context, win fyne.Window, p *prefs.Prefs, log zerolog.Logger) {
	watcher, err := app.NewBinaryWatcher(reloadInterval, log)
	if err != nil {
		log.Warn().Err(err).Msg("hot reload: unable to watch executable")
		return
	}
	log.Info().Str("path", watcher.ExecPath()).Msg("hot reload enabled")

	var watch func()
	watch = func() {
		go watcher.Run(ctx, func() {
			dialog.ShowConfirm("New Version Available",
				"The application binary has been updated.\nRestart now?",
				func(restart bool) {
					if !restart {
						watcher.ResetBaseline()
						watch()
						return
					}
					if err := p.Save(); err != nil {
						log.Warn().Err(err).Msg("hot reload: failed to save preferences")
					}
					log.Info().Msg("hot reload: restarting")
					if err := watcher.Restart(); err != nil {
						log.Error().Err(err).Msg("hot reload: restart failed")
					}
				}, win)
		})
	}
	watch()
}
