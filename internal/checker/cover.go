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

import (
	"github.com/gtswap/swapcheck/internal/morpheme"
)

// checkCoverBasedSwap implements SPEC_FULL.md §4.4. param1/param2 and
// arg1/arg2 have already been confirmed non-empty by the caller
// (Checker.CheckSite); this function returns (Result{}, false) for any
// guard that is not met, never panicking on well-formed input.
func checkCoverBasedSwap(cfg Configuration, site CallSite, param1, param2, arg1, arg2 morphemeSet) (Result, bool) {
	if len(param1.morphemes) != len(param2.morphemes) ||
		len(arg1.morphemes) != len(arg2.morphemes) ||
		len(param1.morphemes) != len(arg1.morphemes) {
		return Result{}, false
	}

	uniqueParam1 := morpheme.NonLowEntropyDifference(param1.morphemes, param2.morphemes)
	uniqueParam2 := morpheme.NonLowEntropyDifference(param2.morphemes, param1.morphemes)
	uniqueArg1 := morpheme.NonLowEntropyDifference(arg1.morphemes, arg2.morphemes)
	uniqueArg2 := morpheme.NonLowEntropyDifference(arg2.morphemes, arg1.morphemes)

	if len(uniqueParam1) == 0 || len(uniqueParam2) == 0 ||
		len(uniqueArg1) == 0 || len(uniqueArg2) == 0 {
		return Result{}, false
	}

	mmA1P1 := morpheme.Match(uniqueArg1, uniqueParam1, morpheme.Optimistic)
	if mmA1P1 > cfg.ExistingMorphemeMatchMax {
		return Result{}, false
	}
	mmA2P2 := morpheme.Match(uniqueArg2, uniqueParam2, morpheme.Optimistic)
	if mmA2P2 > cfg.ExistingMorphemeMatchMax {
		return Result{}, false
	}

	mmA1P2 := morpheme.Match(uniqueArg1, uniqueParam2, morpheme.Pessimistic)
	if mmA1P2 < cfg.SwappedMorphemeMatchMin {
		return Result{}, false
	}
	mmA2P1 := morpheme.Match(uniqueArg2, uniqueParam1, morpheme.Pessimistic)
	if mmA2P1 < cfg.SwappedMorphemeMatchMin {
		return Result{}, false
	}

	paramName1 := site.ParamName(param1.position - 1)
	paramName2 := site.ParamName(param2.position - 1)
	if shareNumericSuffix(paramName1, paramName2) {
		return Result{}, false
	}
	argName1 := site.LastArgIdentifier(arg1.position - 1)
	argName2 := site.LastArgIdentifier(arg2.position - 1)
	if shareNumericSuffix(argName1, argName2) {
		return Result{}, false
	}

	psiI := mmA1P2 / (mmA2P2 + 0.01)
	psiJ := mmA2P1 / (mmA1P1 + 0.01)
	worst := psiI
	if psiJ < worst {
		worst = psiJ
	}

	return Result{
		Arg1:       arg1.position,
		Arg2:       arg2.position,
		Morphemes1: uniqueArg1,
		Morphemes2: uniqueArg2,
		Score: ScoreCard{
			Kind:               ParameterNameBased,
			Score:              worst,
			WasStatsCheckerRun: false,
		},
	}, true
}

// shareNumericSuffix reports whether one and two both end in a digit
// and are otherwise identical, e.g. "horses1"/"horses2". Per
// SPEC_FULL.md §9, both identifiers must end in a digit; if only one
// does, the guard does not fire.
func shareNumericSuffix(one, two string) bool {
	if one == "" || two == "" {
		return false
	}
	if !isDigit(one[len(one)-1]) || !isDigit(two[len(two)-1]) {
		return false
	}
	return one[:len(one)-1] == two[:len(two)-1]
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
