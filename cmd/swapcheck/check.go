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
	"os"

	"github.com/spf13/cobra"

	"github.com/gtswap/swapcheck/internal/diagnostic"
	"github.com/gtswap/swapcheck/internal/frontend"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.go>",
	Short: "Check a single Go source file for swapped-argument call sites",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	c, store, err := buildChecker()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	mode := parseModeFlag()
	parser := frontend.NewGoParser()

	sites, err := parser.Scan(context.Background(), content, path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	found := 0
	for _, site := range sites {
		for _, r := range c.CheckSite(site.CallSite, mode) {
			fmt.Printf("%s:%d: %s\n", path, site.Line, diagnostic.Render(site.FullyQualifiedName, r))
			found++
		}
	}

	if found > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d potential swapped-argument call site(s) found", found)
	}
	return nil
}
