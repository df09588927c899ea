package orders

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rmjobsites/jobsites-api/api/middleware"
	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/api/validators"
	internalorders "github.com/rmjobsites/jobsites-api/internal/orders"
	"github.com/rmjobsites/jobsites-api/pkg/db"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

const (
	defaultAttemptLimit = 50
	maxAttemptLimit     = 200
)

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Create places an order and captures payment. Guests and signed-in customers are both accepted.
func Create(svc internalorders.Service, users userFinder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body internalorders.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user := currentUser(r.Context(), users, logg)

		result, err := svc.Create(r.Context(), internalorders.CreateInput{
			Request:        body,
			User:           user,
			IdempotencyKey: strings.TrimSpace(r.Header.Get(middleware.IdempotencyHeader)),
			CallerID:       middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Calculate prices a cart without creating anything remotely.
func Calculate(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internalorders.CalculateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		calc, err := svc.Calculate(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, calc)
	}
}

// Attempts lists recorded checkouts for reconciliation. Filters: state, unpaid, limit.
func Attempts(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultAttemptLimit, 1, maxAttemptLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		filter := internalorders.AttemptFilter{Limit: limit}
		if raw := strings.TrimSpace(q.Get("state")); raw != "" {
			state := enums.CheckoutState(strings.ToLower(raw))
			filter.State = &state
		}
		switch strings.ToLower(strings.TrimSpace(q.Get("unpaid"))) {
		case "", "false", "0":
		case "true", "1":
			filter.UnpaidOnly = true
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unpaid must be true or false").
				WithDetails(map[string]any{"field": "unpaid"}))
			return
		}

		attempts, err := svc.ListAttempts(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"checkout_attempts": attempts})
	}
}

// currentUser loads the signed-in buyer. Lookup failures fall back to guest checkout.
func currentUser(ctx context.Context, users userFinder, logg *logger.Logger) *models.User {
	userID := middleware.UserUUIDFromContext(ctx)
	if userID == nil || users == nil {
		return nil
	}
	user, err := users.FindByID(ctx, *userID)
	if err != nil {
		if logg != nil {
			if db.IsNotFound(err) {
				logg.Warn(ctx, "orders.token_user_missing")
			} else {
				logg.Error(ctx, "orders.user_lookup_failed", err)
			}
		}
		return nil
	}
	return user
}
