package models

import (
	"gorm.io/gorm"
)

// Dates are stored as YYYY-MM-DD and times as HH:MM:SS. Both formats are
// zero-padded, so lexicographic comparison in SQL matches chronological order.
type Availability struct {
	gorm.Model
	ConsultantID uint   `gorm:"column:consultant_id;not null;index" json:"consultant_id"`
	Date         string `gorm:"column:date;size:10;not null;index" json:"date"`
	StartTime    string `gorm:"column:start_time;size:8;not null" json:"start_time"`
	EndTime      string `gorm:"column:end_time;size:8;not null" json:"end_time"`
	IsBooked     bool   `gorm:"column:is_booked;default:false" json:"is_booked"`

	Consultant *Consultant `gorm:"foreignKey:ConsultantID" json:"-"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// RecurringAvailability is a weekly template, never booked directly.
// DayOfWeek runs 0 (Monday) through 6 (Sunday).
type RecurringAvailability struct {
	gorm.Model
	ConsultantID uint   `gorm:"column:consultant_id;not null;index" json:"consultant_id"`
	DayOfWeek    int    `gorm:"column:day_of_week;not null" json:"day_of_week"`
	StartTime    string `gorm:"column:start_time;size:8;not null" json:"start_time"`
	EndTime      string `gorm:"column:end_time;size:8;not null" json:"end_time"`
	IsActive     bool   `gorm:"column:is_active;default:true" json:"is_active"`

	Consultant *Consultant `gorm:"foreignKey:ConsultantID" json:"-"`
}

func (RecurringAvailability) TableName() string {
	return "recurring_availabilities"
}
