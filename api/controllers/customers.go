package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/api/middleware"
	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/api/validators"
	"github.com/rmjobsites/jobsites-api/internal/customers"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

func actorFrom(r *http.Request) (customers.Actor, error) {
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == nil || *userID == uuid.Nil {
		return customers.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized. Please log in.")
	}
	return customers.Actor{UserID: *userID, Admin: middleware.IsAdmin(r.Context())}, nil
}

// CustomerShow returns the remote profile merged with the local user.
func CustomerShow(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Show(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body customers.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profile, err := svc.Update(r.Context(), actor, chi.URLParam(r, "id"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func CustomerOrders(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orders, err := svc.Orders(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}

func CustomerCards(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cards, err := svc.Cards(r.Context(), actor, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"cards": cards})
	}
}

func CustomerDeleteCard(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCard(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "cardID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Card deleted successfully"})
	}
}
