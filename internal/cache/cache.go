// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache persists checker.Result slices keyed by a digest of the
// call site that produced them, so re-checking an unchanged call site
// (e.g. on an incremental scan) skips both the cover and statistics
// pipelines.
//
// # Description
//
// Call-site analysis is cheap compared to a statistics-store query, but
// repeated full-repo scans still re-derive the same results for call
// sites nobody touched since the last run. ResultCache persists the
// Results for a call site keyed by a SHA256 digest of its shape
// (callee name, parameter names, and the argument identifiers at each
// position), so an unchanged call site is served from BadgerDB instead
// of re-run through the checker.
//
// Storage layout:
//
//	swapcheck/result/v1/{digest}  →  gob-encoded []checker.Result
//	                                   TTL: 24 hours
//
// # Thread Safety
//
// ResultCache is safe for concurrent use. A nil *ResultCache is valid
// and behaves as an always-miss, no-op cache — callers do not need to
// special-case an unconfigured cache directory.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/metrics"
)

// defaultTTL is how long a cached result set remains valid before
// BadgerDB's GC reclaims it. A day is short enough that a statistics
// model refresh (§4.3) is reflected the next morning's scan without an
// explicit invalidation mechanism.
const defaultTTL = 24 * time.Hour

// keyPrefix versions the storage layout so a future encoding change
// does not collide with entries written by an older binary.
const keyPrefix = "swapcheck/result/v1/"

var errCacheMiss = errors.New("cache: miss")

// ResultCache persists checker.Result slices in an embedded BadgerDB
// instance.
type ResultCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open opens (creating if necessary) a BadgerDB-backed ResultCache at
// dir. An empty dir disables caching: Open returns (nil, nil), and the
// resulting nil *ResultCache is a valid always-miss cache.
func Open(dir string, logger *slog.Logger) (*ResultCache, error) {
	if dir == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: opening badger at %s: %w", dir, err)
	}

	return &ResultCache{db: db, ttl: defaultTTL, logger: logger}, nil
}

// Close releases the underlying BadgerDB handle. Safe to call on a nil
// *ResultCache.
func (c *ResultCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Digest computes the cache key for a call site: a SHA256 hash of the
// callee name, its parameter names (if known), and the identifier
// found at each argument position.
//
// Two CallSites that would drive the checker identically hash to the
// same digest regardless of field ordering elsewhere in the struct.
func Digest(site checker.CallSite) string {
	h := sha256.New()
	fmt.Fprintf(h, "callee=%s\n", site.FullyQualifiedName)
	fmt.Fprintf(h, "params=%s\n", strings.Join(site.ParamNames, ","))
	for i, names := range site.PositionalArgNames {
		fmt.Fprintf(h, "arg%d=%s\n", i, strings.Join(names, ","))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves the cached Results for digest. Returns (nil, false) on
// a cache miss (absent, expired, or disabled cache) and logs nothing
// louder than debug — a miss is an expected, common outcome.
func (c *ResultCache) Get(ctx context.Context, digest string) ([]checker.Result, bool) {
	if c == nil {
		return nil, false
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(digest))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errCacheMiss
		}
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		outcome := "miss"
		if !errors.Is(err, errCacheMiss) {
			outcome = "miss"
			c.logger.Warn("result cache: lookup failed", slog.String("error", err.Error()))
		}
		metrics.CacheLookupsTotal.WithLabelValues(outcome).Inc()
		return nil, false
	}

	results, err := gobDecode(raw)
	if err != nil {
		c.logger.Warn("result cache: decode failed", slog.String("error", err.Error()))
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return results, true
}

// Put stores results under digest with the cache's configured TTL. A
// storage failure is logged and swallowed: the cache is an
// optimization, never a correctness dependency, so the caller proceeds
// as if nothing had been cached.
func (c *ResultCache) Put(ctx context.Context, digest string, results []checker.Result) {
	if c == nil {
		return
	}

	raw, err := gobEncode(results)
	if err != nil {
		c.logger.Warn("result cache: encode failed", slog.String("error", err.Error()))
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(digest), raw).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("result cache: write failed", slog.String("error", err.Error()))
	}
}

func cacheKey(digest string) []byte {
	return []byte(keyPrefix + digest)
}

func gobEncode(results []checker.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(results); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func gobDecode(data []byte) ([]checker.Result, error) {
	var results []checker.Result
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&results); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	return results, nil
}
