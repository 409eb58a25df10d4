package items

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
)

// Summarize picks the bookings an owner sees beside an item: last is the
// approved booking started most recently before now (latest end wins), next
// is the approved booking starting soonest after now. Non-approved bookings
// never surface here.
func Summarize(bookings []models.Booking, now time.Time) (last, next *BookingSummary) {
	var lastBooking, nextBooking *models.Booking
	for i := range bookings {
		b := &bookings[i]
		if b.Status != enums.BookingStatusApproved {
			continue
		}
		if b.Start.Before(now) {
			if lastBooking == nil || b.End.After(lastBooking.End) {
				lastBooking = b
			}
			continue
		}
		if b.Start.After(now) {
			if nextBooking == nil || b.Start.Before(nextBooking.Start) {
				nextBooking = b
			}
		}
	}
	if lastBooking != nil {
		last = &BookingSummary{ID: lastBooking.ID, BookerID: lastBooking.BookerID}
	}
	if nextBooking != nil {
		next = &BookingSummary{ID: nextBooking.ID, BookerID: nextBooking.BookerID}
	}
	return last, next
}
