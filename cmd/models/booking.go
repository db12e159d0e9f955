package models

import (
	"gorm.io/gorm"
)

// Booking pairs one reserved availability with the reserving user. The
// unique index on availability_id guarantees at most one booking per slot
// even if two transactions race past the is_booked check.
type Booking struct {
	gorm.Model
	AvailabilityID uint   `gorm:"column:availability_id;not null;uniqueIndex" json:"availability_id"`
	UserID         uint   `gorm:"column:user_id;not null;index" json:"user_id"`
	Reference      string `gorm:"column:reference;size:64;not null" json:"reference"`

	Availability *Availability `gorm:"foreignKey:AvailabilityID" json:"availability,omitempty"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
