// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gtswap/swapcheck/internal/checker"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := checker.New(checker.DefaultConfiguration(), nil)
	if err != nil {
		t.Fatalf("checker.New() error = %v", err)
	}
	h := NewHandlers(c, nil)

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), h)
	return r
}

func TestHandleHealthz(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/swapcheck/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestHandleCheck_DetectsSwap(t *testing.T) {
	r := newTestRouter(t)

	body := CheckRequest{
		Callee:             "drawRect",
		ParamNames:         []string{"width", "height"},
		PositionalArgNames: [][]string{{"height"}, {"width"}},
	}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/v1/swapcheck/check", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("Results = %+v, want exactly one finding", resp.Results)
	}
	if resp.Results[0].Kind != "cover" {
		t.Errorf("Kind = %q, want cover", resp.Results[0].Kind)
	}
}

func TestHandleCheck_RejectsMissingArgs(t *testing.T) {
	r := newTestRouter(t)

	raw := []byte(`{"callee":"f","positional_arg_names":[["a"]]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/swapcheck/check", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleScan_FindsSwappedCallSite(t *testing.T) {
	r := newTestRouter(t)

	source := `package demo

func drawRect(width, height int) {}

func caller() {
	width := 1
	height := 2
	drawRect(height, width)
}
`
	body := ScanRequest{Path: "demo.go", Content: source}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/v1/swapcheck/scan", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Sites) != 1 {
		t.Fatalf("Sites = %+v, want exactly one site", resp.Sites)
	}
	if len(resp.Sites[0].Findings) != 1 {
		t.Errorf("Findings = %+v, want exactly one finding", resp.Sites[0].Findings)
	}
}
