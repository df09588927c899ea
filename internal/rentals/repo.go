package rentals

import (
	"context"

	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

// Repository persists equipment rental requests.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req *models.EquipmentRentalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// List returns every rental request, newest first.
func (r *Repository) List(ctx context.Context) ([]models.EquipmentRentalRequest, error) {
	var rows []models.EquipmentRentalRequest
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
