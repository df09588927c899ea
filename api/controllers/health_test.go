package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmjobsites/jobsites-api/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	up := pingFunc(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("expected a deadline")
		}
		return nil
	})
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	rec := httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"database": up, "redis": up}, testLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HealthReady(cfg, map[string]Pinger{"database": up, "redis": down}, testLogger()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("X-Jobsites-Env") != "dev" {
		t.Fatalf("expected env header")
	}
}

func TestSquareConfigExposesPublicSettings(t *testing.T) {
	cfg := config.SquareConfig{AccessToken: "secret-token", Env: "PRODUCTION", LocationID: "LOC", ApplicationID: "APP"}
	rec := httptest.NewRecorder()

	SquareConfig(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config/square", nil))

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["environment"] != "production" || body["location_id"] != "LOC" || body["application_id"] != "APP" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, leaked := body["access_token"]; leaked {
		t.Fatal("access token must not be exposed")
	}
}
