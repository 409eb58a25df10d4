package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
)

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindByItemID(ctx context.Context, itemID int64) ([]models.Comment, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a comments repo bound to the provided GORM DB.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a comment and reloads it with its author.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	var loaded models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&loaded, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return &loaded, nil
}

// FindByItemID returns one item's comments with authors, oldest first.
func (r *commentRepository) FindByItemID(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id = ?", itemID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindByItemIDs returns comments across a set of items in one query.
func (r *commentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
