package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName string `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:50;not null" json:"last_name"`

	Bookings []Booking `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type Consultant struct {
	gorm.Model
	FirstName string `gorm:"column:first_name;size:50;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:50;not null" json:"last_name"`

	Availabilities          []Availability          `gorm:"foreignKey:ConsultantID;constraint:OnDelete:CASCADE" json:"-"`
	RecurringAvailabilities []RecurringAvailability `gorm:"foreignKey:ConsultantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Consultant) TableName() string {
	return "consultants"
}
