// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diagnostic renders a checker.Result as the human-facing
// artifacts hosts need: the SPEC_FULL.md §6 sentence, a colorized CLI
// rendering of that sentence, and a suggested unified-diff fix that
// swaps the two argument expressions in place.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sourcegraph/go-diff/diff"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/metrics"
)

// Sentence renders the fixed diagnostic template from SPEC_FULL.md §6:
//
//	arguments {i} and {j} are swapped with morpheme1 = {...} and
//	morpheme2 = {...}
//
// callee, when non-empty, is prepended as "{callee}: " — the template
// itself is spec'd verbatim and carries no callee placeholder.
//
// Every call represents a reported finding actually surfaced to a
// host, so Sentence is the choke point that increments
// metrics.ResultsTotal by score-card kind.
func Sentence(callee string, r checker.Result) string {
	metrics.ResultsTotal.WithLabelValues(resultKindLabel(r)).Inc()

	var b strings.Builder
	if callee != "" {
		fmt.Fprintf(&b, "%s: ", callee)
	}
	fmt.Fprintf(&b, "arguments %d and %d are swapped with morpheme1 = %s and morpheme2 = %s",
		r.Arg1, r.Arg2,
		formatMorphemes(r.Morphemes1),
		formatMorphemes(r.Morphemes2),
	)
	return b.String()
}

func resultKindLabel(r checker.Result) string {
	if r.Score.Kind == checker.UsageStatisticsBased {
		return "usage_statistics_based"
	}
	return "parameter_name_based"
}

func formatMorphemes(s interface{ Sorted() []string }) string {
	words := s.Sorted()
	if len(words) == 0 {
		return "none"
	}
	return strings.Join(words, ", ")
}

// =============================================================================
// CLI rendering
// =============================================================================

var (
	coverStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	statsStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// Render returns the diagnostic sentence colorized for a terminal,
// with a kind-specific label prefix (cover-based findings in yellow,
// statistics-based findings in magenta) matching SPEC_FULL.md §6's
// distinction between the two ScoreCard kinds.
func Render(callee string, r checker.Result) string {
	label := coverStyle.Render("[cover]")
	if r.Score.Kind == checker.UsageStatisticsBased {
		label = statsStyle.Render("[stats]")
	}
	return label + " " + bodyStyle.Render(Sentence(callee, r))
}

// =============================================================================
// Suggested fix
// =============================================================================

// SuggestedFix builds a unified diff that swaps the two argument
// expressions on a single source line, for hosts that want to offer a
// one-click fix (SPEC_FULL.md §6, "fix suggestions").
//
// line is the original source line (1-based lineNumber within path),
// and arg1Text/arg2Text are the verbatim source text of the two
// argument expressions as they appear on that line, in their original
// (unswapped) order.
func SuggestedFix(path string, lineNumber int, line, arg1Text, arg2Text string) (string, error) {
	fixed := swapFirstOccurrences(line, arg1Text, arg2Text)
	if fixed == line {
		return "", fmt.Errorf("diagnostic: could not locate %q and %q on the given line", arg1Text, arg2Text)
	}

	hunk := &diff.Hunk{
		OrigStartLine: int32(lineNumber),
		OrigLines:     1,
		NewStartLine:  int32(lineNumber),
		NewLines:      1,
		Body:          []byte("-" + line + "\n" + "+" + fixed + "\n"),
	}

	fd := &diff.FileDiff{
		OrigName: path,
		NewName:  path,
		Hunks:    []*diff.Hunk{hunk},
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("diagnostic: rendering diff: %w", err)
	}
	return string(out), nil
}

// swapFirstOccurrences replaces the first occurrence of a with a
// placeholder, then the first occurrence of b with a, then the
// placeholder with b — a textual swap that avoids a second match of a
// colliding with the text just inserted for b.
func swapFirstOccurrences(line, a, b string) string {
	const placeholder = "\x00SWAPCHECK_TMP\x00"
	ia := strings.Index(line, a)
	if ia < 0 {
		return line
	}
	swapped := line[:ia] + placeholder + line[ia+len(a):]

	ib := strings.Index(swapped, b)
	if ib < 0 {
		return line
	}
	swapped = swapped[:ib] + a + swapped[ib+len(b):]

	ip := strings.Index(swapped, placeholder)
	if ip < 0 {
		return line
	}
	return swapped[:ip] + b + swapped[ip+len(placeholder):]
}
