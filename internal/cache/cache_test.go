// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"testing"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/morpheme"
)

func TestOpen_EmptyDirDisablesCache(t *testing.T) {
	c, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if c != nil {
		t.Fatal("Open(\"\") should return a nil cache")
	}
	// Nil cache must be safe to use.
	if _, ok := c.Get(context.Background(), "anything"); ok {
		t.Error("nil cache Get() should always miss")
	}
	c.Put(context.Background(), "anything", nil)
	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close() error = %v", err)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	results := []checker.Result{
		{Arg1: 1, Arg2: 2, Morphemes1: morpheme.NewSet("width"), Morphemes2: morpheme.NewSet("height")},
	}
	digest := "deadbeef"
	c.Put(context.Background(), digest, results)

	got, ok := c.Get(context.Background(), digest)
	if !ok {
		t.Fatal("Get() after Put() should hit")
	}
	if len(got) != 1 || got[0].Arg1 != 1 || got[0].Arg2 != 2 {
		t.Errorf("Get() = %+v, want round-tripped results", got)
	}
}

func TestGet_Miss(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Get(context.Background(), "never-written"); ok {
		t.Error("Get() of an unwritten digest should miss")
	}
}

func TestDigest_StableAndDiscriminating(t *testing.T) {
	site1 := checker.CallSite{
		FullyQualifiedName: "drawRect",
		ParamNames:         []string{"width", "height"},
		PositionalArgNames: [][]string{{"height"}, {"width"}},
	}
	site2 := site1
	site2.PositionalArgNames = [][]string{{"width"}, {"height"}}

	if Digest(site1) != Digest(site1) {
		t.Error("Digest() should be stable across calls for the same site")
	}
	if Digest(site1) == Digest(site2) {
		t.Error("Digest() should differ when argument identifiers differ")
	}
}
