// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package stats

import (
	"os"
	"testing"
)

func buildAndOpen(t *testing.T, rows []Row) *Store {
	t.Helper()
	path, err := BuildTestDB(rows)
	if err != nil {
		t.Fatalf("BuildTestDB() error = %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s == nil {
		t.Fatal("Open() returned nil store for a valid database")
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_EmptyPathDisabled(t *testing.T) {
	s, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if s != nil {
		t.Fatalf("Open(\"\") = %v, want nil", s)
	}
}

func TestOpen_MissingFileDisabled(t *testing.T) {
	s, err := Open("/nonexistent/path/to/stats.db", nil)
	if err != nil {
		t.Fatalf("Open() error = %v, want nil error (degrade cleanly)", err)
	}
	if s != nil {
		t.Fatalf("Open() = %v, want nil for missing file", s)
	}
}

func TestStore_WeightAt(t *testing.T) {
	s := buildAndOpen(t, []Row{
		{Func: "f", Arg: 0, Morpheme: "cats", Value: 1.0},
		{Func: "f", Arg: 1, Morpheme: "dogs", Value: 0.5},
	})

	if got := s.WeightAt("f", 0, "cats"); got != 1.0 {
		t.Errorf("WeightAt(f,0,cats) = %v, want 1.0", got)
	}
	if got := s.WeightAt("f", 1, "dogs"); got != 0.5 {
		t.Errorf("WeightAt(f,1,dogs) = %v, want 0.5", got)
	}
	if got := s.WeightAt("f", 0, "nope"); got != 0 {
		t.Errorf("WeightAt(absent morpheme) = %v, want 0", got)
	}
	if got := s.WeightAt("missing", 0, "cats"); got != 0 {
		t.Errorf("WeightAt(absent function) = %v, want 0", got)
	}
}

func TestStore_MorphemesAndWeightsAt(t *testing.T) {
	s := buildAndOpen(t, []Row{
		{Func: "f", Arg: 0, Morpheme: "cats", Value: 0.6},
		{Func: "f", Arg: 0, Morpheme: "kittens", Value: 0.4},
	})

	rows, ok := s.MorphemesAndWeightsAt("f", 0)
	if !ok {
		t.Fatal("MorphemesAndWeightsAt() ok = false, want true")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	_, ok = s.MorphemesAndWeightsAt("f", 5)
	if ok {
		t.Error("MorphemesAndWeightsAt(unused position) ok = true, want false")
	}
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	if s.Valid() {
		t.Error("nil *Store.Valid() = true, want false")
	}
	if got := s.WeightAt("f", 0, "m"); got != 0 {
		t.Errorf("nil *Store.WeightAt() = %v, want 0", got)
	}
	if _, ok := s.MorphemesAndWeightsAt("f", 0); ok {
		t.Error("nil *Store.MorphemesAndWeightsAt() ok = true, want false")
	}
	if err := s.Close(); err != nil {
		t.Errorf("nil *Store.Close() error = %v, want nil", err)
	}
}
