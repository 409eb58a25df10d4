package bookings

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
)

// Repository defines persistence operations for bookings. List queries filter
// server-side so presentation ordering stays a storage concern.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id int64) (*models.Booking, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status enums.BookingStatus) error
	ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time) ([]models.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time) ([]models.Booking, error)
	FindByItemID(ctx context.Context, itemID int64) ([]models.Booking, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error)
	FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Owner").
		Preload("Booker")
}

// Create inserts a new booking and reloads it with associations.
func (r *repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, booking.ID)
}

// FindByID loads a booking with its item, item owner and booker.
func (r *repository) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	if err := r.preloaded(ctx).First(&booking, "bookings.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate loads a booking holding a row lock for the enclosing
// transaction. The lock clause is skipped on sqlite, which serializes writes
// anyway.
func (r *repository) FindByIDForUpdate(ctx context.Context, id int64) (*models.Booking, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var booking models.Booking
	if err := query.First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}

	// Associations are loaded outside the locking query; FOR UPDATE cannot
	// span the joined tables.
	loaded, err := r.FindByID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

// UpdateStatus persists a status transition.
func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// ListByBooker returns the booker's bookings in the requested state bucket,
// id descending — except CURRENT, which is id ascending for compatibility
// with existing clients.
func (r *repository) ListByBooker(ctx context.Context, bookerID int64, state enums.BookingState, now time.Time) ([]models.Booking, error) {
	query := r.preloaded(ctx).Where("bookings.booker_id = ?", bookerID)
	query = applyStateFilter(query, state, now)

	order := "bookings.id DESC"
	if state == enums.BookingStateCurrent {
		order = "bookings.id ASC"
	}

	var result []models.Booking
	if err := query.Order(order).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ListByOwner returns bookings of all items owned by ownerID in the requested
// state bucket, id descending.
func (r *repository) ListByOwner(ctx context.Context, ownerID int64, state enums.BookingState, now time.Time) ([]models.Booking, error) {
	query := r.preloaded(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	query = applyStateFilter(query, state, now)

	var result []models.Booking
	if err := query.Order("bookings.id DESC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func applyStateFilter(query *gorm.DB, state enums.BookingState, now time.Time) *gorm.DB {
	switch state {
	case enums.BookingStatePast:
		return query.Where("bookings.end_at < ?", now)
	case enums.BookingStateFuture:
		return query.Where("bookings.start_at > ?", now)
	case enums.BookingStateCurrent:
		return query.Where("bookings.start_at <= ? AND bookings.end_at >= ?", now, now)
	case enums.BookingStateWaiting:
		return query.Where("bookings.status = ?", enums.BookingStatusWaiting)
	case enums.BookingStateRejected:
		return query.Where("bookings.status = ?", enums.BookingStatusRejected)
	default:
		return query
	}
}

// FindByItemID returns all bookings of one item.
func (r *repository) FindByItemID(ctx context.Context, itemID int64) ([]models.Booking, error) {
	var result []models.Booking
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByItemIDs returns bookings across a set of items in one query.
func (r *repository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var result []models.Booking
	if err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByItemAndBooker returns every booking a user made for one item.
func (r *repository) FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error) {
	var result []models.Booking
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND booker_id = ?", itemID, bookerID).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
