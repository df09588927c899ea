package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRemoteCustomerID loads the user linked to a remote customer.
func (r *Repository) FindByRemoteCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("remote_customer_id = ?", customerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile writes the non-blank fields of the patch and reloads the user.
// Blank or absent fields keep their stored value.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	updates := patch.columns()
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// LinkRemoteCustomer sets remote_customer_id only when the user has none yet. The returned
// flag reports whether this call created the link.
func (r *Repository) LinkRemoteCustomer(ctx context.Context, id uuid.UUID, customerID string) (bool, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND (remote_customer_id IS NULL OR remote_customer_id = '')", id).
		UpdateColumn("remote_customer_id", customerID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListAdmins returns every admin ordered by email.
func (r *Repository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var admins []models.User
	if err := r.db.WithContext(ctx).
		Where("admin = ?", true).
		Order("email ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
