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
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Row is a single (function, argument position, morpheme, weight)
// fixture row, as defined by SPEC_FULL.md §6's schema.
type Row struct {
	Func     string
	Arg      int
	Morpheme string
	Value    float64
}

// BuildTestDB creates a temporary SQLite database containing the
// weights table populated with rows, and returns its path. Callers are
// responsible for removing the file (e.g. with t.Cleanup).
//
// This is a test-only helper — it is not used by the engine itself —
// mirroring the original implementation's test::createStatsDB.
func BuildTestDB(rows []Row) (string, error) {
	f, err := os.CreateTemp("", "swapcheck-stats-*.db")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return "", err
	}
	defer db.Close()

	const createTable = `CREATE TABLE weights (
		func TEXT NOT NULL,
		arg INTEGER NOT NULL CHECK(arg >= 0),
		morpheme TEXT NOT NULL,
		value REAL NOT NULL CHECK(value >= 0 AND value <= 1)
	)`
	if _, err := db.Exec(createTable); err != nil {
		return "", fmt.Errorf("stats: create weights table: %w", err)
	}

	const insert = `INSERT INTO weights (func, arg, morpheme, value) VALUES (?, ?, ?, ?)`
	for _, r := range rows {
		if _, err := db.Exec(insert, r.Func, r.Arg, r.Morpheme, r.Value); err != nil {
			return "", fmt.Errorf("stats: insert row %+v: %w", r, err)
		}
	}

	return path, nil
}
