package controllers

import (
	"context"
	"net/http"

	"github.com/rmjobsites/jobsites-api/api/responses"
	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
)

type adminLister interface {
	ListAdmins(ctx context.Context) ([]models.User, error)
}

// UserAdmins lists admins for the assignment picker, ordered by email.
func UserAdmins(repo adminLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := repo.ListAdmins(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list admins"))
			return
		}
		out := make([]users.AdminSummary, 0, len(admins))
		for _, admin := range admins {
			out = append(out, users.SummaryFromModel(admin))
		}
		responses.WriteSuccess(w, map[string]any{"users": out})
	}
}
