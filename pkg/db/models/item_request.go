package models

import "time"

// ItemRequest is a user's ask for something not yet listed. Immutable after
// creation; items may point back at the request that prompted them.
type ItemRequest struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Description string    `gorm:"column:description;not null"`
	RequestorID int64     `gorm:"column:requestor_id;not null;index"`
	Requestor   *User     `gorm:"foreignKey:RequestorID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
