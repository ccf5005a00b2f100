// Package main is the entry point for the mapforge scene exporter.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/mapforge/internal/config"
	"github.com/Faultbox/mapforge/internal/exporter"
	"github.com/Faultbox/mapforge/internal/logger"
	"github.com/Faultbox/mapforge/pkg/formats"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	}

	input := config.InputPath()
	if input == "" {
		fmt.Fprintln(os.Stderr, "Usage: mapforge [flags] scene.{obj,yaml}")
		os.Exit(2)
	}

	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := formats.LoadScene(input)
	if err != nil {
		logger.Error("failed to load scene", zap.String("path", input), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("scene loaded",
		zap.String("name", s.Name),
		zap.Int("objects", len(s.Objects)),
		zap.Int("materials", len(s.Materials)))

	res, err := exporter.Export(s, *cfg)
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}
	for _, w := range res.Warnings {
		logger.Warn("export warning", zap.String("object", w.Object), zap.Error(w.Err))
	}

	if err := deliver(res.Text, s.Name, cfg); err != nil {
		logger.Error("failed to deliver map", zap.Error(err))
		os.Exit(1)
	}

	logger.Sugar.Infof("%d objects, %d brushes, %d point entities, %d skipped",
		res.Stats.Objects, res.Stats.Brushes, res.Stats.PointEntities, res.Stats.Skipped)
	logger.Sugar.Infof("Finished exporting map, took %g sec", res.Stats.Elapsed.Seconds())
}
