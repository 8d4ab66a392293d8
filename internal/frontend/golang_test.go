// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package frontend

import (
	"context"
	"testing"
)

const sample = `package demo

func drawRect(width, height int) {}

func caller() {
	w := 1
	h := 2
	drawRect(h, w)
	drawRect(w, h)
	other.Method(w, h, literalCall())
}
`

func TestScan_ExtractsCallSites(t *testing.T) {
	p := NewGoParser()
	sites, err := p.Scan(context.Background(), []byte(sample), "demo.go")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var found bool
	for _, s := range sites {
		if s.FullyQualifiedName == "drawRect" {
			found = true
			if len(s.ParamNames) != 2 || s.ParamNames[0] != "width" || s.ParamNames[1] != "height" {
				t.Errorf("drawRect ParamNames = %v, want [width height]", s.ParamNames)
			}
			if len(s.PositionalArgNames) != 2 {
				t.Errorf("drawRect PositionalArgNames = %v, want 2 entries", s.PositionalArgNames)
			}
		}
	}
	if !found {
		t.Fatal("expected to find a drawRect call site")
	}
}

func TestScan_MemberCallMarksIsMember(t *testing.T) {
	p := NewGoParser()
	sites, err := p.Scan(context.Background(), []byte(sample), "demo.go")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	var found bool
	for _, s := range sites {
		if s.FullyQualifiedName == "Method" {
			found = true
			if !s.IsMember {
				t.Error("Method call site should have IsMember = true")
			}
		}
	}
	if !found {
		t.Fatal("expected to find a Method call site")
	}
}

func TestScan_SkipsSingleArgumentCalls(t *testing.T) {
	p := NewGoParser()
	sites, err := p.Scan(context.Background(), []byte(`package demo
func one(x int) {}
func caller() { one(1) }
`), "demo.go")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	for _, s := range sites {
		if s.FullyQualifiedName == "one" {
			t.Error("single-argument call site should be skipped (nothing to swap)")
		}
	}
}

func TestScan_RejectsInvalidUTF8(t *testing.T) {
	p := NewGoParser()
	_, err := p.Scan(context.Background(), []byte{0xff, 0xfe, 0x00}, "bad.go")
	if err == nil {
		t.Fatal("expected error for invalid UTF-8 content")
	}
}
