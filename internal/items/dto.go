package items

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
)

// ItemDTO is the public view of an item.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

// CommentDTO is the public view of a comment. AuthorName is denormalized so
// clients render feedback without a second lookup.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// BookingSummary is the minimal booking projection shown to item owners.
type BookingSummary struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// ItemDetailDTO extends ItemDTO with comments and, for the owner, the
// adjacent bookings.
type ItemDetailDTO struct {
	ItemDTO
	LastBooking *BookingSummary `json:"lastBooking"`
	NextBooking *BookingSummary `json:"nextBooking"`
	Comments    []CommentDTO    `json:"comments"`
}

// CreateItemInput carries the fields required to list an item.
type CreateItemInput struct {
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

// UpdateItemInput carries a partial item patch; nil fields are left alone.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Available   *bool
}

// CreateCommentInput carries a renter's feedback text.
type CreateCommentInput struct {
	Text string
}

func toDTO(item *models.Item) ItemDTO {
	return ItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

func toCommentDTO(comment *models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:      comment.ID,
		Text:    comment.Text,
		Created: comment.CreatedAt,
	}
	if comment.Author != nil {
		dto.AuthorName = comment.Author.Name
	}
	return dto
}

func toCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		dtos = append(dtos, toCommentDTO(&comments[i]))
	}
	return dtos
}
