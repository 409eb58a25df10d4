package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/internal/bookings"
	"github.com/vkarpenko/shareit-go/pkg/db/models"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
	"github.com/vkarpenko/shareit-go/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type requestFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ItemRequest, error)
}

type bookingReader interface {
	FindByItemID(ctx context.Context, itemID int64) ([]models.Booking, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error)
	FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error)
}

// Service exposes the item catalogue: listing, search, comments.
type Service interface {
	Create(ctx context.Context, ownerID int64, input CreateItemInput) (ItemDTO, error)
	Update(ctx context.Context, ownerID, itemID int64, input UpdateItemInput) (ItemDTO, error)
	GetByID(ctx context.Context, userID, itemID int64) (ItemDetailDTO, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]ItemDetailDTO, error)
	Search(ctx context.Context, text string) ([]ItemDTO, error)
	AddComment(ctx context.Context, authorID, itemID int64, input CreateCommentInput) (CommentDTO, error)
}

// ServiceParams groups dependencies for the items service.
type ServiceParams struct {
	Items    Repository
	Comments CommentRepository
	Users    userFinder
	Requests requestFinder
	Bookings bookingReader
	Tx       txRunner
	Logg     *logger.Logger

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	items    Repository
	comments CommentRepository
	users    userFinder
	requests requestFinder
	bookings bookingReader
	tx       txRunner
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds an items service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items repo is required")
	}
	if params.Comments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comments repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.Requests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requests repo is required")
	}
	if params.Bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		items:    params.Items,
		comments: params.Comments,
		users:    params.Users,
		requests: params.Requests,
		bookings: params.Bookings,
		tx:       params.Tx,
		logg:     params.Logg,
		now:      now,
	}, nil
}

// Create lists a new item for the owner.
func (s *service) Create(ctx context.Context, ownerID int64, input CreateItemInput) (ItemDTO, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return ItemDTO{}, err
	}

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
	}
	if description == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
	}
	if input.Available == nil {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "available is required")
	}
	if input.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *input.RequestID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "request not found")
			}
			return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
	}

	item, err := s.items.Create(ctx, &models.Item{
		Name:        name,
		Description: description,
		Available:   *input.Available,
		OwnerID:     ownerID,
		RequestID:   input.RequestID,
	})
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "item_id", item.ID), "item.created")
	}
	return toDTO(item), nil
}

// Update applies an owner's partial patch: only non-nil fields overwrite.
func (s *service) Update(ctx context.Context, ownerID, itemID int64, input UpdateItemInput) (ItemDTO, error) {
	var dto ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.items.WithTx(tx)

		item, err := repo.FindByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
		}
		if item.OwnerID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may edit an item")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
			}
			item.Name = name
		}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
			}
			item.Description = description
		}
		if input.Available != nil {
			item.Available = *input.Available
		}

		updated, err := repo.Save(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save item")
		}
		dto = toDTO(updated)
		return nil
	})
	if err != nil {
		return ItemDTO{}, err
	}
	return dto, nil
}

// GetByID returns the item with its comments. Booking summaries are included
// only when the viewer owns the item.
func (s *service) GetByID(ctx context.Context, userID, itemID int64) (ItemDetailDTO, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return ItemDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	comments, err := s.comments.FindByItemID(ctx, itemID)
	if err != nil {
		return ItemDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comments")
	}

	detail := ItemDetailDTO{
		ItemDTO:  toDTO(item),
		Comments: toCommentDTOs(comments),
	}
	if item.OwnerID == userID {
		itemBookings, err := s.bookings.FindByItemID(ctx, itemID)
		if err != nil {
			return ItemDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bookings")
		}
		detail.LastBooking, detail.NextBooking = Summarize(itemBookings, s.now())
	}
	return detail, nil
}

// ListByOwner returns the owner's items with summaries and comments. Comments
// and bookings come back in two set queries and are grouped in memory.
func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]ItemDetailDTO, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	ownerItems, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	itemIDs := make([]int64, 0, len(ownerItems))
	for i := range ownerItems {
		itemIDs = append(itemIDs, ownerItems[i].ID)
	}

	comments, err := s.comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comments")
	}
	commentsByItem := make(map[int64][]models.Comment, len(itemIDs))
	for i := range comments {
		commentsByItem[comments[i].ItemID] = append(commentsByItem[comments[i].ItemID], comments[i])
	}

	itemBookings, err := s.bookings.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bookings")
	}
	bookingsByItem := make(map[int64][]models.Booking, len(itemIDs))
	for i := range itemBookings {
		bookingsByItem[itemBookings[i].ItemID] = append(bookingsByItem[itemBookings[i].ItemID], itemBookings[i])
	}

	now := s.now()
	details := make([]ItemDetailDTO, 0, len(ownerItems))
	for i := range ownerItems {
		item := &ownerItems[i]
		detail := ItemDetailDTO{
			ItemDTO:  toDTO(item),
			Comments: toCommentDTOs(commentsByItem[item.ID]),
		}
		detail.LastBooking, detail.NextBooking = Summarize(bookingsByItem[item.ID], now)
		details = append(details, detail)
	}
	return details, nil
}

// Search matches available items by free text. Blank text returns an empty
// list without touching the store.
func (s *service) Search(ctx context.Context, text string) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	found, err := s.items.Search(ctx, text)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search items")
	}
	dtos := make([]ItemDTO, 0, len(found))
	for i := range found {
		dtos = append(dtos, toDTO(&found[i]))
	}
	return dtos, nil
}

// AddComment records feedback from a past renter. Only authors with a
// finished approved booking of the item may comment.
func (s *service) AddComment(ctx context.Context, authorID, itemID int64, input CreateCommentInput) (CommentDTO, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return CommentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "text must not be blank")
	}

	if err := s.ensureUser(ctx, authorID); err != nil {
		return CommentDTO{}, err
	}
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	history, err := s.bookings.FindByItemAndBooker(ctx, itemID, authorID)
	if err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental history")
	}
	if !bookings.HasCompletedApproved(history, s.now()) {
		return CommentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot comment without a completed rental")
	}

	comment, err := s.comments.Create(ctx, &models.Comment{
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
	})
	if err != nil {
		return CommentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "item_id", itemID), "item.comment_added")
	}
	return toCommentDTO(comment), nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return nil
}
