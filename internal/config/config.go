// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates checker.Configuration from YAML,
// with embedded defaults matching SPEC_FULL.md §3.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gtswap/swapcheck/internal/checker"
)

//go:embed default_config.yaml
var defaultYAML []byte

// MaxYAMLFileSize bounds how large a configuration document this
// package will parse, guarding against a pathological input being fed
// to the YAML decoder.
const MaxYAMLFileSize = 1 << 20 // 1 MiB

// document is the YAML-facing shape of checker.Configuration. Field
// names are the snake_case knobs from SPEC_FULL.md §3; yaml.v3's
// strict decoder rejects any key not listed here.
type document struct {
	ModelPath                    string  `yaml:"model_path"`
	ExistingMorphemeMatchMax     float64 `yaml:"existing_morpheme_match_max"`
	SwappedMorphemeMatchMin      float64 `yaml:"swapped_morpheme_match_min"`
	StatsSwappedMorphemeThreshold float64 `yaml:"stats_swapped_morpheme_threshold"`
	StatsSwappedFitnessThreshold  float64 `yaml:"stats_swapped_fitness_threshold"`
}

// Default returns the documented default Configuration, loaded from
// the embedded default_config.yaml.
func Default() checker.Configuration {
	cfg, err := Parse(defaultYAML)
	if err != nil {
		// The embedded defaults are part of the binary; a failure here
		// is a build-time defect, not a runtime condition callers can
		// recover from.
		panic(fmt.Sprintf("config: embedded default_config.yaml is invalid: %v", err))
	}
	return cfg
}

// Parse decodes a YAML configuration document into a
// checker.Configuration, applying the documented default thresholds
// (the same values as default_config.yaml) for any field the document
// omits, then validating the result.
//
// Unknown keys are a load error (SPEC_FULL.md §6: "unknown knobs are
// rejected by construction").
func Parse(data []byte) (checker.Configuration, error) {
	if len(data) > MaxYAMLFileSize {
		return checker.Configuration{}, fmt.Errorf("config: document exceeds maximum size (%d > %d)", len(data), MaxYAMLFileSize)
	}

	doc := document{
		ExistingMorphemeMatchMax:      0.5,
		SwappedMorphemeMatchMin:       0.75,
		StatsSwappedMorphemeThreshold: 0.75,
		StatsSwappedFitnessThreshold:  0.75,
	}

	if len(data) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return checker.Configuration{}, fmt.Errorf("config: parsing YAML: %w", err)
		}
	}

	cfg := checker.Configuration{
		ModelPath:                     doc.ModelPath,
		ExistingMorphemeMatchMax:      doc.ExistingMorphemeMatchMax,
		SwappedMorphemeMatchMin:       doc.SwappedMorphemeMatchMin,
		StatsSwappedMorphemeThreshold: doc.StatsSwappedMorphemeThreshold,
		StatsSwappedFitnessThreshold:  doc.StatsSwappedFitnessThreshold,
	}

	if err := cfg.Validate(); err != nil {
		return checker.Configuration{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Load reads and parses a configuration document from path.
func Load(path string) (checker.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return checker.Configuration{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}
