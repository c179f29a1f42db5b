// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/specialistvlad/expconf/conf"
	"github.com/specialistvlad/expconf/internal/loader"
	"github.com/specialistvlad/expconf/internal/registry"
	"github.com/specialistvlad/expconf/internal/resolver"
	"github.com/specialistvlad/expconf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts Options) (*Server, *testutil.SafeBuffer) {
	t.Helper()

	ctx, _ := testutil.Context(t)
	docs, err := loader.New(conf.FS(), ".").Load(ctx)
	require.NoError(t, err)
	reg := registry.New()
	reg.Populate(docs)

	logs := &testutil.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(resolver.New(reg), logger, opts), logs
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{})

	rec := get(t, s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestServer_RequestIDIsPropagated(t *testing.T) {
	t.Parallel()

	s, logs := newTestServer(t, Options{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")

	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.Contains(t, logs.String(), "request_id=abc-123")
}

func TestServer_Groups(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{})

	rec := get(t, s, "/v1/groups")

	require.Equal(t, http.StatusOK, rec.Code)
	var body groupsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"config"}, body.Roots)
	assert.Equal(t, []string{"gpt2_19M", "gpt2_5M", "gpt2_800k", "gpt2_85M"}, body.Groups["model"])
	assert.Contains(t, body.Groups["experiment"], "childes_multilingual_180k")
}

func TestServer_Config(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{Strict: true})
	override := url.QueryEscape("dataset.subconfig=indo-european")

	testCases := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:       "json",
			target:     "/v1/configs/childes_multilingual_180k?override=" + override,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				dp := body["data_preprocessing"].(map[string]any)
				assert.Equal(t, float64(180000), dp["subsample"])
				assert.Equal(t, "tokens", dp["subsample_type"])
			},
		},
		{
			name:       "yaml",
			target:     "/v1/configs/experiment/childes_multilingual_180k?format=yaml&override=" + override,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), "subsample_type: tokens")
			},
		},
		{
			name:       "missing value",
			target:     "/v1/configs/childes_multilingual_180k",
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, []string{"dataset.subconfig"}, body.Missing)
			},
		},
		{
			name:       "unknown entry",
			target:     "/v1/configs/childes_multilingual_18k",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad override",
			target:     "/v1/configs/childes_english_85M?override=nonsense",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad format",
			target:     "/v1/configs/childes_english_85M?format=toml",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "schema violation",
			target:     "/v1/configs/childes_english_85M?override=" + url.QueryEscape("data_preprocessing.join_utts=sometimes"),
			wantStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Contains(t, rec.Body.String(), "join_utts")
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, s, tc.target)

			require.Equal(t, tc.wantStatus, rec.Code, rec.Body.String())
			if tc.check != nil {
				tc.check(t, rec)
			}
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s, _ := newTestServer(t, Options{})
	get(t, s, "/v1/configs/childes_english_85M")
	get(t, s, "/v1/configs/nope")

	// --- Act ---
	rec := get(t, s, "/metrics")

	// --- Assert ---
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `expconf_resolutions_total{outcome="ok"} 1`)
	assert.Contains(t, body, `expconf_resolutions_total{outcome="error"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/v1/configs/*entry",status="200"} 1`)
}

func TestServer_RejectsInterpolatedOverrides(t *testing.T) {
	t.Setenv("EXPCONF_TEST_SECRET", "hunter2")
	s, _ := newTestServer(t, Options{})

	testCases := []string{
		"++leak=${oc.env:EXPCONF_TEST_SECRET}",
		"experiment.name=${oc.env:EXPCONF_TEST_SECRET,x}",
		"++leak={a: '${oc.env:EXPCONF_TEST_SECRET}'}",
	}
	for _, ov := range testCases {
		rec := get(t, s, "/v1/configs/childes_english_85M?override="+url.QueryEscape(ov))

		assert.Equal(t, http.StatusBadRequest, rec.Code, ov)
		assert.NotContains(t, rec.Body.String(), "hunter2", ov)
		assert.Contains(t, rec.Body.String(), "interpolations are not accepted", ov)
	}
}

func TestServer_DocumentInterpolationStillResolves(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{})

	rec := get(t, s, "/v1/configs/childes_multilingual_180k?override="+url.QueryEscape("dataset.subconfig=Basque"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "childes-multilingual-180k-Basque")
}
