// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diagnostic

import (
	"strings"
	"testing"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/morpheme"
)

func TestSentence(t *testing.T) {
	r := checker.Result{
		Arg1:       1,
		Arg2:       2,
		Morphemes1: morpheme.NewSet("width"),
		Morphemes2: morpheme.NewSet("height"),
	}
	got := Sentence("drawRect", r)
	for _, want := range []string{"arguments 1 and 2", "drawRect", "width", "height"} {
		if !strings.Contains(got, want) {
			t.Errorf("Sentence() = %q, want substring %q", got, want)
		}
	}
}

func TestSentence_NoCallee(t *testing.T) {
	r := checker.Result{Arg1: 1, Arg2: 2, Morphemes1: morpheme.NewSet("a"), Morphemes2: morpheme.NewSet("b")}
	got := Sentence("", r)
	if !strings.HasPrefix(got, "arguments 1 and 2") {
		t.Errorf("Sentence() with empty callee = %q, should start with the template and carry no callee prefix", got)
	}
}

func TestRender_DistinguishesKind(t *testing.T) {
	cover := checker.Result{Arg1: 1, Arg2: 2, Morphemes1: morpheme.NewSet("a"), Morphemes2: morpheme.NewSet("b"),
		Score: checker.ScoreCard{Kind: checker.ParameterNameBased}}
	stats := cover
	stats.Score.Kind = checker.UsageStatisticsBased

	coverOut := Render("f", cover)
	statsOut := Render("f", stats)
	if coverOut == statsOut {
		t.Error("Render() should differ between cover-based and statistics-based kinds")
	}
}

func TestSuggestedFix(t *testing.T) {
	line := "drawRect(width, height)"
	out, err := SuggestedFix("shapes.go", 42, line, "width", "height")
	if err != nil {
		t.Fatalf("SuggestedFix() error = %v", err)
	}
	if !strings.Contains(out, "-"+line) {
		t.Errorf("diff missing original line: %s", out)
	}
	if !strings.Contains(out, "+drawRect(height, width)") {
		t.Errorf("diff missing swapped line, got: %s", out)
	}
}

func TestSuggestedFix_ArgNotFound(t *testing.T) {
	_, err := SuggestedFix("shapes.go", 1, "drawRect(a, b)", "nope", "b")
	if err == nil {
		t.Fatal("expected error when argument text is not present on the line")
	}
}
