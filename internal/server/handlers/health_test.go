package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		db, cache  Pinger
		wantCode   int
		wantStatus string
		wantDB     string
		wantCache  string
	}{
		{"all up", up, up, http.StatusOK, "healthy", "connected", "connected"},
		{"cache disabled", up, nil, http.StatusOK, "healthy", "connected", "disabled"},
		{"cache down", up, down, http.StatusOK, "healthy", "connected", "disconnected"},
		{"database down", down, up, http.StatusServiceUnavailable, "degraded", "disconnected", "connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.db, tt.cache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			var got HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Status != tt.wantStatus || got.Database != tt.wantDB || got.Cache != tt.wantCache {
				t.Errorf("got %+v", got)
			}
		})
	}
}
