package controllers

import (
	"net/http"

	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/pkg/config"
)

// SquareConfig exposes the public payment form settings.
func SquareConfig(cfg config.SquareConfig) http.HandlerFunc {
	payload := map[string]string{
		"application_id": cfg.ApplicationID,
		"location_id":    cfg.LocationID,
		"environment":    cfg.Environment(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, payload)
	}
}
