// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package morpheme

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Set
	}{
		{"underscore", "foo_bar", NewSet("foo", "bar")},
		{"camel", "fooBarBaz", NewSet("foo", "bar", "baz")},
		{"leading underscores", "__foobar", NewSet("foobar")},
		{"all caps", "FOOBAR", NewSet("foobar")},
		{"mixed caps", "fooBAR", NewSet("foo", "bar")},
		{"duplicate word", "foo_bar_bar", NewSet("foo", "bar")},
		{"mixed", "foo_barBaz", NewSet("foo", "bar", "baz")},
		{"empty", "", Set{}},
		{"single lowercase", "foo", NewSet("foo")},
		{"trailing underscore", "foo_", NewSet("foo")},
		{"double underscore interior", "foo__bar", NewSet("foo", "bar")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitInvariants(t *testing.T) {
	words := []string{"fooBarBaz", "HTTPServer", "snake_case_name", "x", ""}
	for _, w := range words {
		s := Split(w)
		for m := range s {
			if m == "" {
				t.Errorf("Split(%q) produced an empty morpheme", w)
			}
			for _, r := range m {
				if r >= 'A' && r <= 'Z' {
					t.Errorf("Split(%q) produced non-lowercase morpheme %q", w, m)
				}
			}
		}
	}
}

func TestSplitUnderscorePadding(t *testing.T) {
	s := "dogsAndCats"
	if !reflect.DeepEqual(Split("__"+s+"__"), Split(s)) {
		t.Errorf("padding with underscores changed the result for %q", s)
	}
}

func TestSplitConcatenation(t *testing.T) {
	s1, s2 := "dogs", "cats"
	got := Split(s1 + "_" + s2)
	want := Split(s1).Union(Split(s2))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split(%q) = %v, want union %v", s1+"_"+s2, got, want)
	}
}
