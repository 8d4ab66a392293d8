// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command swapcheck finds swapped-argument bugs in Go source: call
// sites where two arguments look like they were passed in the wrong
// order, judged by comparing the morphemes of each argument's
// identifier against the callee's parameter names (or, when that finds
// nothing, against a statistics model built from how the callee is
// used elsewhere).
//
// Usage:
//
//	swapcheck check path/to/file.go
//	swapcheck scan path/to/dir
//	swapcheck serve --addr :8080
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/config"
	"github.com/gtswap/swapcheck/internal/stats"
)

var (
	configPath string
	modelPath  string
	modeFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "swapcheck",
	Short: "Detect swapped-argument bugs in Go source",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a swapcheck YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "path to a read-only statistics SQLite database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "all", "checking mode: all, cover, or stats")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfiguration loads the effective checker.Configuration from
// --config (falling back to documented defaults), then applies
// --model as an override.
func loadConfiguration() (checker.Configuration, error) {
	var cfg checker.Configuration
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return checker.Configuration{}, fmt.Errorf("loading %s: %w", configPath, err)
		}
	} else {
		cfg = config.Default()
	}

	if modelPath != "" {
		cfg.ModelPath = modelPath
	}

	return cfg, nil
}

func parseModeFlag() checker.Mode {
	switch modeFlag {
	case "cover":
		return checker.Cover
	case "stats":
		return checker.Stats
	default:
		return checker.All
	}
}

// buildChecker loads configuration and opens the statistics store (if
// configured), returning a ready-to-use Checker. The returned *stats.Store
// may be nil; callers should Close it if non-nil.
func buildChecker() (*checker.Checker, *stats.Store, error) {
	cfg, err := loadConfiguration()
	if err != nil {
		return nil, nil, err
	}

	store, err := stats.Open(cfg.ModelPath, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("opening statistics store: %w", err)
	}

	var src checker.StatsSource
	if store != nil {
		src = store
	}

	c, err := checker.New(cfg, src)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, nil, fmt.Errorf("constructing checker: %w", err)
	}

	return c, store, nil
}

func fatal(err error) {
	slog.Error("swapcheck: fatal", slog.String("error", err.Error()))
	os.Exit(1)
}
