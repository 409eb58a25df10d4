package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
)

// Repository defines persistence operations for items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	Save(ctx context.Context, item *models.Item) (*models.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	Search(ctx context.Context, text string) ([]models.Item, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs an items repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts a new item.
func (r *repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads an item with its owner.
func (r *repository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).Preload("Owner").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists the full item record.
func (r *repository) Save(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListByOwner returns the owner's items ordered by id.
func (r *repository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches available items whose name or description contains the text,
// case-insensitive. LOWER+LIKE keeps the query portable across postgres and
// sqlite.
func (r *repository) Search(ctx context.Context, text string) ([]models.Item, error) {
	pattern := "%" + text + "%"
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
