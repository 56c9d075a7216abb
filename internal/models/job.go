package models

import "time"

// JobListing is a posted nursing job. Pay fields are premium-gated on
// the way out; they are always stored in full.
type JobListing struct {
	BaseModel
	Title     string `gorm:"not null"`
	Specialty string `gorm:"type:varchar(50);index"` // ICU, ER, L&D, ...
	ShiftType string `gorm:"type:varchar(20)"`       // days, nights, rotating

	FacilityID string `gorm:"not null;index"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(2);index"`

	PayMin    float64
	PayMax    float64
	PayPeriod string `gorm:"type:varchar(10);default:'hour'"`

	Status   JobStatus `gorm:"type:varchar(20);default:'active'"`
	PostedAt time.Time `gorm:"default:now()"`

	// Relations
	Facility Facility `gorm:"foreignKey:FacilityID"`
}
