package models

import (
	"time"

	"github.com/vkarpenko/shareit-go/pkg/enums"
)

// Booking reserves an item for a time window. Status only ever moves
// WAITING -> APPROVED or WAITING -> REJECTED; once approved it is frozen.
type Booking struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Start     time.Time           `gorm:"column:start_at;not null"`
	End       time.Time           `gorm:"column:end_at;not null"`
	ItemID    int64               `gorm:"column:item_id;not null;index"`
	Item      *Item               `gorm:"foreignKey:ItemID"`
	BookerID  int64               `gorm:"column:booker_id;not null;index"`
	Booker    *User               `gorm:"foreignKey:BookerID"`
	Status    enums.BookingStatus `gorm:"column:status;type:text;not null"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
