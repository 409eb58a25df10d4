package requests

import (
	"context"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
)

// Repository defines persistence operations for item requests. Requests are
// immutable, so there is no save path.
type Repository interface {
	Create(ctx context.Context, request *models.ItemRequest) (*models.ItemRequest, error)
	FindByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a requests repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new request.
func (r *repository) Create(ctx context.Context, request *models.ItemRequest) (*models.ItemRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindByID loads a request by id.
func (r *repository) FindByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByRequestor returns the user's requests, newest first.
func (r *repository) ListByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	var result []models.ItemRequest
	if err := r.db.WithContext(ctx).
		Where("requestor_id = ?", requestorID).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
