package controllers

import (
	"net/http"

	"github.com/rmjobsites/jobsites-api/api/middleware"
	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/api/validators"
	"github.com/rmjobsites/jobsites-api/internal/rentals"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

func RentalCreate(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body rentals.CreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), middleware.UserUUIDFromContext(r.Context()), body.EquipmentRentalRequest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"equipment_rental_request": created,
			"message":                  "Equipment rental request submitted successfully",
		})
	}
}

func RentalList(svc rentals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"equipment_rental_requests": rows})
	}
}
