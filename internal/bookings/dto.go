package bookings

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
)

// ItemRef is the item projection embedded in a booking response.
type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRef is the booker projection embedded in a booking response.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the public view of a booking.
type BookingDTO struct {
	ID     int64               `json:"id"`
	Start  time.Time           `json:"start"`
	End    time.Time           `json:"end"`
	Status enums.BookingStatus `json:"status"`
	Item   ItemRef             `json:"item"`
	Booker UserRef             `json:"booker"`
}

// CreateBookingInput carries the fields required to reserve an item.
type CreateBookingInput struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

func toDTO(booking *models.Booking) BookingDTO {
	dto := BookingDTO{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
	}
	if booking.Item != nil {
		dto.Item = ItemRef{ID: booking.Item.ID, Name: booking.Item.Name}
	} else {
		dto.Item = ItemRef{ID: booking.ItemID}
	}
	if booking.Booker != nil {
		dto.Booker = UserRef{ID: booking.Booker.ID, Name: booking.Booker.Name}
	} else {
		dto.Booker = UserRef{ID: booking.BookerID}
	}
	return dto
}

func toDTOs(bookings []models.Booking) []BookingDTO {
	dtos := make([]BookingDTO, 0, len(bookings))
	for i := range bookings {
		dtos = append(dtos, toDTO(&bookings[i]))
	}
	return dtos
}
