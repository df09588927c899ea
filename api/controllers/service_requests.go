package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/api/middleware"
	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/api/validators"
	"github.com/rmjobsites/jobsites-api/internal/servicerequests"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

// ServiceRequestCreate accepts intake from guests and signed-in customers.
func ServiceRequestCreate(svc servicerequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body servicerequests.CreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), middleware.UserUUIDFromContext(r.Context()), body.ServiceRequest)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"service_request": created,
			"message":         "Service request submitted successfully",
		})
	}
}

func ServiceRequestList(svc servicerequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"service_requests": rows})
	}
}

func ServiceRequestAssign(svc servicerequests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Service request not found"))
			return
		}
		actor := middleware.UserUUIDFromContext(r.Context())
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized. Please log in."))
			return
		}

		var body servicerequests.AssignInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Assign(r.Context(), requestID, *actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"service_request": updated,
			"message":         "Service request assigned successfully",
		})
	}
}
