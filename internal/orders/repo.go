package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	"github.com/rmjobsites/jobsites-api/pkg/enums"
)

const (
	defaultAttemptLimit = 50
	maxAttemptLimit     = 200
)

// Repository persists checkout attempts with gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an attempts repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new attempt.
func (r *Repository) Create(ctx context.Context, attempt *models.CheckoutAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// Update writes the given columns.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CheckoutAttempt{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// List returns attempts newest first.
func (r *Repository) List(ctx context.Context, filter AttemptFilter) ([]models.CheckoutAttempt, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAttemptLimit
	}
	if limit > maxAttemptLimit {
		limit = maxAttemptLimit
	}

	query := r.db.WithContext(ctx).Model(&models.CheckoutAttempt{})
	if filter.State != nil {
		query = query.Where("state = ?", *filter.State)
	}
	if filter.UnpaidOnly {
		query = query.Where("state = ? AND remote_order_id IS NOT NULL AND remote_payment_id IS NULL", enums.CheckoutStateFailed)
	}

	var rows []models.CheckoutAttempt
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
