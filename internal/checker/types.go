// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package checker implements the swapped-argument detection engine on
// top of internal/morpheme's identifier splitter: a cover-based
// (parameter-name-driven) check, a statistics-based check driven by a
// read-only per-callee model, and the orchestrator that ties both
// together for a call site.
package checker

import "github.com/gtswap/swapcheck/internal/morpheme"

// Mode selects which checking strategies CheckSite runs for each
// argument pair.
type Mode int

const (
	// All runs the cover-based checker first; if it reports nothing for
	// a pair, the statistics-based checker is attempted (when a Store
	// is configured). This is the default.
	All Mode = iota
	// Cover runs only the cover-based, parameter-name-driven checker.
	Cover
	// Stats runs only the statistics-based checker.
	Stats
)

// CallSite is an immutable description of a single call expression,
// as produced by a front-end. The engine never mutates or retains it.
type CallSite struct {
	// FullyQualifiedName is the callee's name. May be empty.
	FullyQualifiedName string

	// ParamNames are the formal parameter identifiers, in declaration
	// order. Nil if unavailable. Individual entries may be empty
	// strings when a parameter has no name.
	ParamNames []string

	// IsVariadic and IsMember are advisory only; the engine does not
	// change behavior based on them today.
	IsVariadic bool
	IsMember   bool

	// PositionalArgNames holds, for each actual argument in call order,
	// the ordered list of identifiers the front-end extracted from that
	// argument expression (see the producer contract in SPEC_FULL.md §6).
	PositionalArgNames [][]string
}

// ParamName returns the parameter name at the given zero-based
// argument position, or "" if there is no corresponding named
// parameter (positions beyond len(ParamNames), or an empty entry).
func (c CallSite) ParamName(pos int) string {
	if pos < 0 || pos >= len(c.ParamNames) {
		return ""
	}
	return c.ParamNames[pos]
}

// LastArgIdentifier returns the last identifier extracted for the
// argument at the given zero-based position, or "" if there is none.
// The cover-based checker's numeric-suffix guard uses this: the last
// identifier of a multi-identifier argument (e.g. "bar.baz()" → "baz")
// is the one that plausibly carries a numeric suffix like the
// parameter name does.
func (c CallSite) LastArgIdentifier(pos int) string {
	if pos < 0 || pos >= len(c.PositionalArgNames) {
		return ""
	}
	names := c.PositionalArgNames[pos]
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1]
}

// morphemeSet pairs a Set with the one-based position it describes.
type morphemeSet struct {
	morphemes morpheme.Set
	position  int // one-based
}

// ScoreCardKind distinguishes the two ScoreCard variants.
type ScoreCardKind int

const (
	// ParameterNameBased marks a ScoreCard produced by the cover-based
	// checker.
	ParameterNameBased ScoreCardKind = iota
	// UsageStatisticsBased marks a ScoreCard produced by the
	// statistics-based checker.
	UsageStatisticsBased
)

// ScoreCard is a tagged variant describing the evidence behind a
// Result. Exactly one of the two shapes is populated, selected by Kind.
type ScoreCard struct {
	Kind ScoreCardKind

	// ParameterNameBased fields.
	Score               float64
	WasStatsCheckerRun  bool

	// UsageStatisticsBased fields.
	Fit1, Fit2 float64
	Psi1, Psi2 float64
}

// StatsScore returns max(Fit1, Fit2), the headline score for a
// UsageStatisticsBased card, per SPEC_FULL.md §3.
func (s ScoreCard) StatsScore() float64 {
	if s.Fit1 > s.Fit2 {
		return s.Fit1
	}
	return s.Fit2
}

// Result reports that the arguments at Arg1 and Arg2 (one-based,
// Arg1 < Arg2) appear to be transposed.
type Result struct {
	Arg1, Arg2           int
	Morphemes1, Morphemes2 morpheme.Set
	Score                ScoreCard
}

// Configuration holds the tunable thresholds for both checkers and the
// optional path to a statistics database. All fields have the
// documented defaults from SPEC_FULL.md §3; construct via
// DefaultConfiguration and override selectively.
type Configuration struct {
	// ModelPath is an optional filesystem path to the SQLite statistics
	// database. Empty disables the statistics-based checker.
	ModelPath string

	ExistingMorphemeMatchMax    float64
	SwappedMorphemeMatchMin     float64
	StatsSwappedMorphemeThreshold float64
	StatsSwappedFitnessThreshold  float64
}

// DefaultConfiguration returns the documented default thresholds with
// no statistics database configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		ExistingMorphemeMatchMax:      0.5,
		SwappedMorphemeMatchMin:       0.75,
		StatsSwappedMorphemeThreshold: 0.75,
		StatsSwappedFitnessThreshold:  0.75,
	}
}

// Validate rejects out-of-range thresholds. All four thresholds are
// scores in [0,1]; construction must fail rather than silently clamp,
// per SPEC_FULL.md §7 ("Configuration out of range: construction-time
// error").
func (c Configuration) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"existing_morpheme_match_max", c.ExistingMorphemeMatchMax},
		{"swapped_morpheme_match_min", c.SwappedMorphemeMatchMin},
		{"stats_swapped_morpheme_threshold", c.StatsSwappedMorphemeThreshold},
		{"stats_swapped_fitness_threshold", c.StatsSwappedFitnessThreshold},
	} {
		if f.val < 0 || f.val > 1 {
			return &ConfigError{Field: f.name, Value: f.val}
		}
	}
	return nil
}
