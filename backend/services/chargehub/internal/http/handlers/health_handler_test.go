package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		checks []HealthCheck
		code   int
		body   map[string]string
	}{
		{"no checks", nil, http.StatusOK, map[string]string{"status": "ok"}},
		{"all up", []HealthCheck{{"database", up}, {"redis", up}}, http.StatusOK, map[string]string{"status": "ok"}},
		{"redis down", []HealthCheck{{"database", up}, {"redis", down}}, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "redis": "unreachable"}},
		{"unset check skipped", []HealthCheck{{"redis", nil}}, http.StatusOK, map[string]string{"status": "ok"}},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		NewHealthHandler(tc.checks...)(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rr.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rr.Code)
		}
		var got map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: decode: %v", tc.name, err)
		}
		if len(got) != len(tc.body) {
			t.Fatalf("%s: unexpected body %v", tc.name, got)
		}
		for k, v := range tc.body {
			if got[k] != v {
				t.Fatalf("%s: %s=%q, want %q", tc.name, k, got[k], v)
			}
		}
	}
}
