package bookings

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
)

// IsOwner reports whether userID owns the booked item. Bookings loaded for
// authorization checks must have Item preloaded.
func IsOwner(userID int64, booking *models.Booking) bool {
	if booking == nil || booking.Item == nil {
		return false
	}
	return booking.Item.OwnerID == userID
}

// IsBookerOrOwner reports whether userID may read the booking.
func IsBookerOrOwner(userID int64, booking *models.Booking) bool {
	if booking == nil {
		return false
	}
	return booking.BookerID == userID || IsOwner(userID, booking)
}

// ValidateWindow checks the requested rental window: both bounds present,
// start not in the past, start strictly before end.
func ValidateWindow(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking start and end are required")
	}
	if start.Before(now) {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking start must not be in the past")
	}
	if !start.Before(end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "booking start must be before end")
	}
	return nil
}

// HasCompletedApproved reports whether any booking finished before now with
// an approved status. This is the comment-eligibility rule.
func HasCompletedApproved(candidates []models.Booking, now time.Time) bool {
	for i := range candidates {
		b := &candidates[i]
		if b.End.Before(now) && b.Status == enums.BookingStatusApproved {
			return true
		}
	}
	return false
}
