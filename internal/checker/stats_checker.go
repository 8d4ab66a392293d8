// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package checker

import "github.com/gtswap/swapcheck/internal/morpheme"

// MorphemeWeight is one (morpheme, weight) row as returned by a
// StatsSource for a fixed (function, position).
type MorphemeWeight struct {
	Morpheme string
	Weight   float64
}

// StatsSource is the read-only statistics contract the Statistics-Based
// Checker depends on (SPEC_FULL.md §4.3). It is satisfied by
// *stats.Store; the checker package never imports stats directly so the
// store stays an opaque, swappable backend.
type StatsSource interface {
	// WeightAt returns the stored weight for morpheme at argPos for
	// function, or 0 if the row is absent.
	WeightAt(function string, argPos int, morpheme string) float64

	// MorphemesAndWeightsAt returns every (morpheme, weight) row for
	// function at argPos, or (nil, false) if that function/position has
	// no rows at all.
	MorphemesAndWeightsAt(function string, argPos int) ([]MorphemeWeight, bool)
}

// checkStatisticsBasedSwap implements SPEC_FULL.md §4.5. The first
// (m1, m2) pair that survives every gate wins; this mirrors the
// original's "first hit wins for the pair" return.
func checkStatisticsBasedSwap(cfg Configuration, site CallSite, stats StatsSource, arg1, arg2 morphemeSet) (Result, bool) {
	d1 := morpheme.NonLowEntropyDifference(arg1.morphemes, arg2.morphemes)
	d2 := morpheme.NonLowEntropyDifference(arg2.morphemes, arg1.morphemes)

	fn := site.FullyQualifiedName

	for m1 := range d1 {
		for m2 := range d2 {
			psi1 := confidenceRatio(stats, fn, m1, arg2.position-1, arg1.position-1)
			psi2 := confidenceRatio(stats, fn, m2, arg1.position-1, arg2.position-1)
			if psi1 <= cfg.StatsSwappedMorphemeThreshold || psi2 <= cfg.StatsSwappedMorphemeThreshold {
				continue
			}

			if !residualsEqual(d1, m1, d2, m2) {
				continue
			}

			fit1 := fitness(stats, fn, arg2.position-1, m1)
			fit2 := fitness(stats, fn, arg1.position-1, m2)
			if fit1 > cfg.StatsSwappedFitnessThreshold && fit2 > cfg.StatsSwappedFitnessThreshold {
				return Result{
					Arg1:       arg1.position,
					Arg2:       arg2.position,
					Morphemes1: d1,
					Morphemes2: d2,
					Score: ScoreCard{
						Kind: UsageStatisticsBased,
						Fit1: fit1,
						Fit2: fit2,
						Psi1: psi1,
						Psi2: psi2,
					},
				}, true
			}
		}
	}

	return Result{}, false
}

// confidenceRatio computes how much more common morph is at otherPos
// than at ownPos: weight_at(fn, otherPos, morph) / weight_at(fn,
// ownPos, morph). If the denominator is 0 and the numerator is
// non-zero, the ratio is treated as 1 (strong evidence); if both are
// 0, it is treated as 0.
func confidenceRatio(stats StatsSource, fn, morph string, otherPos, ownPos int) float64 {
	own := stats.WeightAt(fn, ownPos, morph)
	other := stats.WeightAt(fn, otherPos, morph)
	if own == 0 {
		if other != 0 {
			return 1
		}
		return 0
	}
	return other / own
}

// residualsEqual removes m1 from d1 and m2 from d2 and reports whether
// the remainders are equal as sets — the residual-equality gate of
// SPEC_FULL.md §4.5 step 3.
func residualsEqual(d1 morpheme.Set, m1 string, d2 morpheme.Set, m2 string) bool {
	rem1 := make(morpheme.Set, len(d1))
	for m := range d1 {
		if m != m1 {
			rem1[m] = struct{}{}
		}
	}
	rem2 := make(morpheme.Set, len(d2))
	for m := range d2 {
		if m != m2 {
			rem2[m] = struct{}{}
		}
	}
	if len(rem1) != len(rem2) {
		return false
	}
	for m := range rem1 {
		if !rem2.Has(m) {
			return false
		}
	}
	return true
}

// fitness computes fit(m, fn, pos) = sum over (m', w) at pos of
// similarity(m, m') * w. similarity is exact match today (SPEC_FULL.md
// §4.5 step 4, §9's documented extension point).
func fitness(stats StatsSource, fn string, pos int, m string) float64 {
	rows, ok := stats.MorphemesAndWeightsAt(fn, pos)
	if !ok {
		return 0
	}
	var total float64
	for _, row := range rows {
		total += similarity(m, row.Morpheme) * row.Weight
	}
	return total
}

// similarity is exact match today; making it continuous over [0,1]
// (abbreviation- or synonym-aware) requires no other code changes.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}
