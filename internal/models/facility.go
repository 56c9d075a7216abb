package models

import "gorm.io/datatypes"

// Facility carries the precomputed OFS score and letter grade. The
// scoring pipeline that produces these values runs elsewhere; this
// service only stores and gates them.
type Facility struct {
	BaseModel
	Name  string `gorm:"not null;index"`
	City  string `gorm:"type:varchar(100)"`
	State string `gorm:"type:varchar(2);index"`

	FacilityType string `gorm:"type:varchar(50)"` // hospital, clinic, snf

	OverallScore float64 `gorm:"index:idx_facilities_score,sort:desc"`
	Grade        string  `gorm:"type:varchar(2)"`

	// Indices holds the 13 per-index scores, e.g.
	// {"staffing": 82.1, "pay": 74.0, ...}
	Indices datatypes.JSON `gorm:"type:jsonb"`

	BedCount int

	// Relations
	Jobs []JobListing `gorm:"foreignKey:FacilityID"`
}
