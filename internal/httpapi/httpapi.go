// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package httpapi exposes the swap checker over HTTP via Gin.
//
// # Description
//
// Handlers are thin: they decode a request, call into internal/checker
// (optionally through the result cache), and render the diagnostics.
// All business logic lives in internal/checker, internal/frontend, and
// internal/diagnostic; this package only adapts HTTP to those APIs.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gtswap/swapcheck/internal/cache"
	"github.com/gtswap/swapcheck/internal/checker"
	"github.com/gtswap/swapcheck/internal/diagnostic"
	"github.com/gtswap/swapcheck/internal/frontend"
	"github.com/gtswap/swapcheck/internal/metrics"
	"github.com/gtswap/swapcheck/internal/telemetry"
)

// ErrorResponse is the JSON body returned for any non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

// Handlers bundles the dependencies HTTP handlers need.
//
// # Thread Safety
//
// Handlers is safe for concurrent use once constructed: the checker
// and cache it wraps are themselves safe for concurrent use.
type Handlers struct {
	checker *checker.Checker
	parser  *frontend.GoParser
	cache   *cache.ResultCache
}

// NewHandlers constructs Handlers. cache may be nil to disable result
// caching.
func NewHandlers(c *checker.Checker, cache *cache.ResultCache) *Handlers {
	return &Handlers{checker: c, parser: frontend.NewGoParser(), cache: cache}
}

// RegisterRoutes registers the swapcheck endpoints under rg.
//
// Endpoints:
//
//	GET  /v1/swapcheck/healthz - Liveness check
//	POST /v1/swapcheck/check   - Check a single call site
//	POST /v1/swapcheck/scan    - Scan a Go source file for call sites
func RegisterRoutes(rg *gin.RouterGroup, h *Handlers) {
	sc := rg.Group("/swapcheck")
	{
		sc.GET("/healthz", h.HandleHealthz)
		sc.POST("/check", h.HandleCheck)
		sc.POST("/scan", h.HandleScan)
	}
}

func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleHealthz handles GET /v1/swapcheck/healthz.
func (h *Handlers) HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CheckRequest is the request body for POST /v1/swapcheck/check.
type CheckRequest struct {
	Callee             string     `json:"callee"`
	ParamNames         []string   `json:"param_names"`
	PositionalArgNames [][]string `json:"positional_arg_names" binding:"required,min=2"`
	Mode               string     `json:"mode"` // "all", "cover", or "stats"; defaults to "all"
}

// CheckResponse is the response body for POST /v1/swapcheck/check.
type CheckResponse struct {
	RequestID string     `json:"request_id"`
	Results   []Finding  `json:"results"`
}

// Finding is a single reported swap, rendered for JSON consumers.
type Finding struct {
	Arg1     int    `json:"arg1"`
	Arg2     int    `json:"arg2"`
	Kind     string `json:"kind"`
	Score    float64 `json:"score"`
	Sentence string `json:"sentence"`
}

// HandleCheck handles POST /v1/swapcheck/check: runs the checker
// against a single caller-described call site.
func (h *Handlers) HandleCheck(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Code:      "INVALID_REQUEST",
			RequestID: requestID,
		})
		return
	}

	mode := parseMode(req.Mode)
	site := checker.CallSite{
		FullyQualifiedName: req.Callee,
		ParamNames:         req.ParamNames,
		PositionalArgNames: req.PositionalArgNames,
	}

	ctx, span := telemetry.StartCheckSpan(c.Request.Context(), req.Callee, len(req.PositionalArgNames))
	defer span.End()

	start := time.Now()
	results := h.checker.CheckSite(site, mode)
	metrics.CheckLatencySeconds.Observe(time.Since(start).Seconds())
	metrics.ChecksTotal.WithLabelValues(modeLabel(mode)).Inc()
	telemetry.RecordResultCount(span, len(results))
	_ = ctx

	c.JSON(http.StatusOK, CheckResponse{
		RequestID: requestID,
		Results:   renderFindings(req.Callee, results),
	})
}

// ScanRequest is the request body for POST /v1/swapcheck/scan.
type ScanRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content" binding:"required"`
	Mode    string `json:"mode"`
}

// ScanResponse is the response body for POST /v1/swapcheck/scan.
type ScanResponse struct {
	RequestID string        `json:"request_id"`
	Sites     []SiteFinding `json:"sites"`
}

// SiteFinding pairs a scanned call site's location with its findings.
type SiteFinding struct {
	Line     int       `json:"line"`
	Callee   string    `json:"callee"`
	Findings []Finding `json:"findings"`
}

// HandleScan handles POST /v1/swapcheck/scan: parses a Go source file
// and runs the checker over every call site it finds, using the result
// cache when configured.
func (h *Handlers) HandleScan(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Code:      "INVALID_REQUEST",
			RequestID: requestID,
		})
		return
	}

	mode := parseMode(req.Mode)
	ctx := c.Request.Context()

	sites, err := h.parser.Scan(ctx, []byte(req.Content), req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Code:      "PARSE_FAILED",
			RequestID: requestID,
		})
		return
	}

	out := make([]SiteFinding, 0, len(sites))
	for _, s := range sites {
		digest := cache.Digest(s.CallSite)
		results, hit := h.cache.Get(ctx, digest)
		if !hit {
			results = h.checker.CheckSite(s.CallSite, mode)
			h.cache.Put(ctx, digest, results)
		}
		metrics.ChecksTotal.WithLabelValues(modeLabel(mode)).Inc()

		out = append(out, SiteFinding{
			Line:     s.Line,
			Callee:   s.FullyQualifiedName,
			Findings: renderFindings(s.FullyQualifiedName, results),
		})
	}

	c.JSON(http.StatusOK, ScanResponse{RequestID: requestID, Sites: out})
}

func renderFindings(callee string, results []checker.Result) []Finding {
	out := make([]Finding, 0, len(results))
	for _, r := range results {
		kind := "cover"
		score := r.Score.Score
		if r.Score.Kind == checker.UsageStatisticsBased {
			kind = "stats"
			score = r.Score.StatsScore()
		}
		out = append(out, Finding{
			Arg1:     r.Arg1,
			Arg2:     r.Arg2,
			Kind:     kind,
			Score:    score,
			Sentence: diagnostic.Sentence(callee, r),
		})
	}
	return out
}

func parseMode(s string) checker.Mode {
	switch s {
	case "cover":
		return checker.Cover
	case "stats":
		return checker.Stats
	default:
		return checker.All
	}
}

func modeLabel(m checker.Mode) string {
	switch m {
	case checker.Cover:
		return "cover"
	case checker.Stats:
		return "stats"
	default:
		return "all"
	}
}
