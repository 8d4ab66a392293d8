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

// lowQualityMorphemes names single-character morphemes treated as
// index-variable noise (loop counters and the like). This is today's
// production policy: a no-op beyond removing these few names. The hook
// stays so future policy (e.g. dropping low-Shannon-entropy morphemes)
// does not change the orchestrator's API.
var lowQualityMorphemes = map[string]struct{}{
	"i": {}, "j": {}, "k": {}, "n": {}, "m": {},
}

// filterLowQuality removes low-quality morphemes from s, returning the
// filtered set. An empty result disqualifies the participant that
// produced it.
func filterLowQuality(s morpheme.Set) morpheme.Set {
	out := make(morpheme.Set, len(s))
	for m := range s {
		if _, low := lowQualityMorphemes[m]; low {
			continue
		}
		out[m] = struct{}{}
	}
	return out
}

// Checker is constructed once against a Configuration and, optionally,
// a live StatsSource. It is safe for concurrent CheckSite calls
// provided the StatsSource is (see SPEC_FULL.md §5).
type Checker struct {
	cfg   Configuration
	stats StatsSource // nil disables the statistics-based checker
}

// New constructs a Checker. cfg is validated; stats may be nil, which
// disables the statistics-based checker entirely (Cover-only mode).
func New(cfg Configuration, stats StatsSource) (*Checker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Checker{cfg: cfg, stats: stats}, nil
}

// CheckSite enumerates unordered argument-position pairs for site and
// runs the configured strategies against each, per SPEC_FULL.md §4.6.
// The returned slice is in pair-enumeration order and, for identical
// inputs and configuration, is byte-identical across calls (modulo the
// deterministic floating-point fields of each ScoreCard).
func (c *Checker) CheckSite(site CallSite, mode Mode) []Result {
	n := len(site.PositionalArgNames)
	if n < 2 {
		return nil
	}

	var results []Result

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r, ok := c.checkPair(site, mode, i, j); ok {
				results = append(results, r)
			}
		}
	}

	return results
}

// checkPair runs the per-pair pipeline of SPEC_FULL.md §4.6 step by
// step: build morpheme sets, apply the low-quality filter, then try
// Cover-Based before falling back to Statistics-Based.
func (c *Checker) checkPair(site CallSite, mode Mode, i, j int) (Result, bool) {
	argI := filterLowQuality(collectArgMorphemes(site, i))
	argJ := filterLowQuality(collectArgMorphemes(site, j))
	if len(argI) == 0 || len(argJ) == 0 {
		return Result{}, false
	}
	argSetI := morphemeSet{morphemes: argI, position: i + 1}
	argSetJ := morphemeSet{morphemes: argJ, position: j + 1}

	paramNameI := site.ParamName(i)
	paramNameJ := site.ParamName(j)
	havePairedParams := paramNameI != "" && paramNameJ != ""

	if havePairedParams && (mode == All || mode == Cover) {
		paramI := filterLowQuality(morpheme.Split(paramNameI))
		paramJ := filterLowQuality(morpheme.Split(paramNameJ))
		if len(paramI) > 0 && len(paramJ) > 0 {
			paramSetI := morphemeSet{morphemes: paramI, position: i + 1}
			paramSetJ := morphemeSet{morphemes: paramJ, position: j + 1}
			if r, ok := checkCoverBasedSwap(c.cfg, site, paramSetI, paramSetJ, argSetI, argSetJ); ok {
				return r, true
			}
		}
	}

	if (mode == All || mode == Stats) && c.stats != nil {
		return checkStatisticsBasedSwap(c.cfg, site, c.stats, argSetI, argSetJ)
	}

	return Result{}, false
}

// collectArgMorphemes splits and unions every identifier the front-end
// extracted for the argument at the given zero-based position.
func collectArgMorphemes(site CallSite, pos int) morpheme.Set {
	out := make(morpheme.Set)
	if pos < 0 || pos >= len(site.PositionalArgNames) {
		return out
	}
	for _, name := range site.PositionalArgNames[pos] {
		out = out.Union(morpheme.Split(name))
	}
	return out
}
