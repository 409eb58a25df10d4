package models

import "time"

// Item is a thing an owner shares on the marketplace. Available is an
// owner-toggled flag: creating a booking does not flip it.
type Item struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string       `gorm:"column:name;not null"`
	Description string       `gorm:"column:description;not null"`
	Available   bool         `gorm:"column:available;not null;default:false"`
	OwnerID     int64        `gorm:"column:owner_id;not null;index"`
	Owner       *User        `gorm:"foreignKey:OwnerID"`
	RequestID   *int64       `gorm:"column:request_id"`
	Request     *ItemRequest `gorm:"foreignKey:RequestID"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}
