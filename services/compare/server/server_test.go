// Copyright (C) 2026 Statgate Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statgate/statgate/services/compare/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(config.Default(), nil, nil, prometheus.NewRegistry())
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleCompare(t *testing.T) {
	srv := newTestServer(t)

	t.Run("clear difference", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a":           []float64{100, 102, 98, 104, 96, 101, 99, 103, 97, 100},
			"samples_b":           []float64{120, 122, 118, 124, 116, 121, 119, 123, 117, 120},
			"practical_threshold": 10,
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, "significant", resp.Verdict)
		assert.Equal(t, "welch-t", resp.Evidence.Test)
		assert.NotNil(t, resp.Evidence.DegreesOfFreedom)
		assert.NotNil(t, resp.Evidence.CI)
		assert.NotEmpty(t, resp.Interpretation)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("insufficient data is HTTP 200", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a":           []float64{1, 2},
			"samples_b":           []float64{3, 4},
			"practical_threshold": 1,
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "insufficient-data", resp.Verdict)
		assert.Len(t, resp.Warnings, 2)
	})

	t.Run("missing samples is HTTP 400", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a":           []float64{1, 2, 3},
			"practical_threshold": 1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing practical threshold is HTTP 400", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a": []float64{1, 2, 3},
			"samples_b": []float64{4, 5, 6},
		})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "PracticalThreshold")
	})

	t.Run("zero practical threshold is HTTP 400", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a":           []float64{1, 2, 3},
			"samples_b":           []float64{4, 5, 6},
			"practical_threshold": 0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("custom labels appear in warnings", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/compare", map[string]any{
			"samples_a":           []float64{101, 98, 105, 200, 99, 102, 97, 103, 100, 98},
			"samples_b":           []float64{85, 82, 88, 84, 86, 83, 87, 85, 84, 86},
			"practical_threshold": 10,
			"labels":              []string{"baseline", "candidate"},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp compareResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Warnings)
		assert.Contains(t, resp.Warnings[0], "baseline")
	})
}

func TestHandleDiagnostics(t *testing.T) {
	srv := newTestServer(t)

	t.Run("ok", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/diagnostics", map[string]any{
			"sample": []float64{100, 101, 99, 102, 98, 100, 101, 99, 100, 500},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp diagnosticsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 10, resp.Diagnostics.N)
		assert.Equal(t, 1, resp.Diagnostics.OutlierCount)
		assert.Contains(t, resp.Diagnostics.OutlierValues, 500.0)
	})

	t.Run("missing sample is HTTP 400", func(t *testing.T) {
		w := postJSON(t, srv, "/v1/diagnostics", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/compare/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/compare/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/compare/health", nil)
		req.Header.Set(requestIDHeader, "req-123")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
