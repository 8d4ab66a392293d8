// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package stats implements the read-only, SQLite-backed Statistics
// Store described in SPEC_FULL.md §4.3: a per-callee model of how
// often a morpheme appears at a given argument position, used by the
// statistics-based swap checker.
package stats

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/metrics"
)

// schemaQuery checks that the expected table exists with a compatible
// shape before the Store advertises itself as valid.
const schemaQuery = `SELECT func, arg, morpheme, value FROM weights LIMIT 1`

// Store is a read-only handle onto a SQLite statistics database. It
// satisfies checker.StatsSource. A Store with a nil underlying
// connection is "invalid" and every query degrades to a default zero
// value or (nil, false) — callers should not construct a Store
// directly; use Open.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path read-only and validates that
// it has a usable weights table. logger receives the disabling/error
// diagnostics Open would otherwise send to the package-global logger;
// a nil logger falls back to slog.Default().
//
// Per SPEC_FULL.md §4.3 / §7: an empty path, a missing or unreadable
// file, or a schema-less database are not errors — Open returns
// (nil, nil) in those cases, and the caller is expected to treat a nil
// *Store as "statistics-based checking disabled". Open never returns a
// non-nil error; every failure is logged at Warn level instead.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if path == "" {
		metrics.StoreOpenTotal.WithLabelValues("disabled").Inc()
		return nil, nil
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		logger.Warn("stats: failed to open database, disabling statistics-based checking",
			"path", path, "error", err)
		metrics.StoreOpenTotal.WithLabelValues("error").Inc()
		return nil, nil
	}

	if _, err := db.Exec(schemaQuery); err != nil {
		logger.Warn("stats: database missing usable weights table, disabling statistics-based checking",
			"path", path, "error", err)
		_ = db.Close()
		metrics.StoreOpenTotal.WithLabelValues("error").Inc()
		return nil, nil
	}

	// Read-only, embedded database: a handful of idle connections is
	// plenty of concurrency for the lookups this package issues, and
	// avoids unbounded goroutine-per-query connection churn.
	db.SetMaxOpenConns(8)

	metrics.StoreOpenTotal.WithLabelValues("valid").Inc()
	return &Store{db: db}, nil
}

// Close releases the underlying database handle. Safe to call on a
// nil *Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Valid reports whether s is a usable, open Store.
func (s *Store) Valid() bool {
	return s != nil && s.db != nil
}

// WeightAt implements checker.StatsSource.
func (s *Store) WeightAt(function string, argPos int, morpheme string) float64 {
	if !s.Valid() {
		return 0
	}
	const q = `SELECT value FROM weights WHERE func = ? AND arg = ? AND morpheme = ?`
	var weight float64
	if err := s.db.QueryRow(q, function, argPos, morpheme).Scan(&weight); err != nil {
		return 0
	}
	return weight
}

// MorphemesAndWeightsAt implements checker.StatsSource.
func (s *Store) MorphemesAndWeightsAt(function string, argPos int) ([]checker.MorphemeWeight, bool) {
	if !s.Valid() {
		return nil, false
	}
	const q = `SELECT morpheme, value FROM weights WHERE func = ? AND arg = ?`
	rows, err := s.db.Query(q, function, argPos)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var out []checker.MorphemeWeight
	for rows.Next() {
		var row checker.MorphemeWeight
		if err := rows.Scan(&row.Morpheme, &row.Weight); err != nil {
			return nil, false
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false
	}
	return out, len(out) > 0
}

var _ checker.StatsSource = (*Store)(nil)
