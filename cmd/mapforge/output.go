package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Faultbox/mapforge/internal/clipboard"
	"github.com/Faultbox/mapforge/internal/config"
)

// deliver routes the finished document to the configured destination.
func deliver(text, sceneName string, cfg *config.Config) error {
	switch cfg.Output.Destination {
	case config.DestClipboard:
		return clipboard.NewSDLSink().Write(text)
	case config.DestGTK:
		return clipboard.NewGTKSink().Write(text)
	default:
		return writeFileAtomic(outputPath(sceneName, cfg), text)
	}
}

// outputPath derives the target path when none is configured: the scene
// name with a .map extension, in the working directory.
func outputPath(sceneName string, cfg *config.Config) string {
	if cfg.Output.Path != "" {
		return cfg.Output.Path
	}
	if sceneName == "" {
		sceneName = "untitled"
	}
	return sceneName + ".map"
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so an interrupted run never leaves a truncated
// map behind.
func writeFileAtomic(path, text string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
