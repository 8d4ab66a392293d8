// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gtswap/swapcheck/internal/cache"
	"github.com/gtswap/swapcheck/internal/diagnostic"
	"github.com/gtswap/swapcheck/internal/frontend"
	"github.com/gtswap/swapcheck/internal/metrics"
)

var cacheDir string

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Recursively scan a directory tree of Go source for swapped-argument call sites",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "BadgerDB directory for caching results across scans")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	c, store, err := buildChecker()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	resultCache, err := cache.Open(cacheDir, nil)
	if err != nil {
		return fmt.Errorf("opening result cache: %w", err)
	}
	defer resultCache.Close()

	mode := parseModeFlag()
	parser := frontend.NewGoParser()
	ctx := context.Background()

	found := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if d.Name() == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		sites, err := parser.Scan(ctx, content, path)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, site := range sites {
			digest := cache.Digest(site.CallSite)
			results, hit := resultCache.Get(ctx, digest)
			if !hit {
				results = c.CheckSite(site.CallSite, mode)
				resultCache.Put(ctx, digest, results)
			}
			metrics.ChecksTotal.WithLabelValues(modeFlag).Inc()

			for _, r := range results {
				fmt.Printf("%s:%d: %s\n", path, site.Line, diagnostic.Render(site.FullyQualifiedName, r))
				found++
			}
		}
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	if found > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d potential swapped-argument call site(s) found", found)
	}
	return nil
}
