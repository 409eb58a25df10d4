package bookings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
	"github.com/vkarpenko/shareit-go/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type itemFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Item, error)
}

// Service exposes the booking lifecycle: create, decide, read, list.
type Service interface {
	Create(ctx context.Context, bookerID int64, input CreateBookingInput) (BookingDTO, error)
	Approve(ctx context.Context, userID, bookingID int64, approved bool) (BookingDTO, error)
	GetByID(ctx context.Context, userID, bookingID int64) (BookingDTO, error)
	ListByBooker(ctx context.Context, bookerID int64, state string) ([]BookingDTO, error)
	ListByOwner(ctx context.Context, ownerID int64, state string) ([]BookingDTO, error)
}

// ServiceParams groups dependencies for the bookings service.
type ServiceParams struct {
	Repo  Repository
	Users userFinder
	Items itemFinder
	Tx    txRunner
	Logg  *logger.Logger

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo  Repository
	users userFinder
	items itemFinder
	tx    txRunner
	logg  *logger.Logger
	now   func() time.Time
}

// NewService builds a bookings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bookings repo is required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
		items: params.Items,
		tx:    params.Tx,
		logg:  params.Logg,
		now:   now,
	}, nil
}

// Create reserves an item for the booker. The checks run in a fixed order;
// the first failure wins. Creating a booking does not flip item
// availability: available is an owner-toggled flag.
func (s *service) Create(ctx context.Context, bookerID int64, input CreateBookingInput) (BookingDTO, error) {
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booker")
	}

	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	if item.OwnerID == bookerID {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "owner cannot book own item")
	}
	if !item.Available {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "item is already booked")
	}
	if err := ValidateWindow(input.Start, input.End, s.now()); err != nil {
		return BookingDTO{}, err
	}

	booking := &models.Booking{
		Start:    input.Start,
		End:      input.End,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   enums.BookingStatusWaiting,
	}
	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "booking_id", created.ID), "booking.created")
	}
	return toDTO(created), nil
}

// Approve records the owner's single decision on a waiting booking. The
// read-decide-write runs in one transaction over a locked row so two
// concurrent decisions cannot both pass the status check.
func (s *service) Approve(ctx context.Context, userID, bookingID int64, approved bool) (BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var dto BookingDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}

		if !IsOwner(userID, booking) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the item owner may decide a booking")
		}
		if booking.Status == enums.BookingStatusApproved {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot change status after approval")
		}

		status := enums.BookingStatusRejected
		if approved {
			status = enums.BookingStatusApproved
		}
		if err := repo.UpdateStatus(ctx, booking.ID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update booking status")
		}

		booking.Status = status
		dto = toDTO(booking)
		return nil
	})
	if err != nil {
		return BookingDTO{}, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "booking_id", bookingID), "booking.decided")
	}
	return dto, nil
}

// GetByID returns the booking to its booker or the item's owner.
func (s *service) GetByID(ctx context.Context, userID, bookingID int64) (BookingDTO, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if !IsBookerOrOwner(userID, booking) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "booking is visible to its booker and the item owner only")
	}
	return toDTO(booking), nil
}

// ListByBooker returns the caller's bookings in the requested state bucket.
// The caller is verified before the state parses, so an unknown user is a
// NotFound even with a bogus state.
func (s *service) ListByBooker(ctx context.Context, bookerID int64, state string) ([]BookingDTO, error) {
	if err := s.ensureUser(ctx, bookerID); err != nil {
		return nil, err
	}
	bucket, err := s.parseState(ctx, state)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.ListByBooker(ctx, bookerID, bucket, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings by booker")
	}
	return toDTOs(result), nil
}

// ListByOwner returns bookings across all of the owner's items. Caller
// verification precedes state parsing, as in ListByBooker.
func (s *service) ListByOwner(ctx context.Context, ownerID int64, state string) ([]BookingDTO, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	bucket, err := s.parseState(ctx, state)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.ListByOwner(ctx, ownerID, bucket, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings by owner")
	}
	return toDTOs(result), nil
}

func (s *service) parseState(ctx context.Context, state string) (enums.BookingState, error) {
	bucket, err := enums.ParseBookingState(state)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "state", state), "booking.unknown_state")
		}
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown state: %s", state)
	}
	return bucket, nil
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
