package servicerequests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

// Repository persists service requests and their assignments.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req *models.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByID loads a request with its owner and assignee.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := r.preloaded(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns every request, newest first.
func (r *Repository) List(ctx context.Context) ([]models.ServiceRequest, error) {
	var rows []models.ServiceRequest
	if err := r.preloaded(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertAssignment sets the assignee, replacing any previous one. created is true when no
// assignment existed before.
func (r *Repository) UpsertAssignment(ctx context.Context, requestID, assigneeID, assignedBy uuid.UUID) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ServiceRequestAssignment
		err := tx.Where("service_request_id = ?", requestID).First(&existing).Error
		if db.IsNotFound(err) {
			created = true
			return tx.Create(&models.ServiceRequestAssignment{
				ServiceRequestID: requestID,
				AssignedToUserID: assigneeID,
				AssignedByUserID: assignedBy,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]any{
			"assigned_to_user_id": assigneeID,
			"assigned_by_user_id": assignedBy,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User").
		Preload("Assignment").
		Preload("Assignment.AssignedTo")
}
