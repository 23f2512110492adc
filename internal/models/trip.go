package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip is the root of the planning aggregate. It exclusively owns its
// TripCity and TripDay rows: deleting a trip deletes both collections.
type Trip struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:100;not null" json:"title"`
	StartDate time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time      `gorm:"type:date;not null" json:"end_date"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TripCities []TripCity `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"trip_cities"`
	TripDays   []TripDay  `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"trip_days"`
}

// DurationDays is the inclusive number of calendar days the trip spans.
// A one-day trip (start == end) has a duration of 1.
func (t *Trip) DurationDays() int {
	return DurationDays(t.StartDate, t.EndDate)
}

// DateForSequence derives the calendar date of the 1-based day sequence.
// The date is never persisted on TripDay; it is always recomputed from the
// trip's current start date so a shifted trip cannot diverge.
func (t *Trip) DateForSequence(sequence int) time.Time {
	return dateOnly(t.StartDate).AddDate(0, 0, sequence-1)
}

// DurationDays counts inclusive calendar days between two dates, ignoring
// any time-of-day component.
func DurationDays(start, end time.Time) int {
	return int(dateOnly(end).Sub(dateOnly(start)).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TripCity links a trip to a city for a sub-interval of the trip. A trip may
// reference the same city more than once with separate intervals.
type TripCity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TripID    uint      `gorm:"not null;index" json:"trip_id"`
	CityID    uint      `gorm:"not null;index" json:"city_id"`
	City      City      `gorm:"foreignKey:CityID" json:"city"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
}

// TripDay is one calendar day of a trip, identified by its 1-based sequence
// from the trip's start date. The persisted sequences for a trip are always
// exactly {1..DurationDays}.
type TripDay struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	TripID      uint `gorm:"not null;index" json:"trip_id"`
	DaySequence int  `gorm:"not null" json:"day_sequence"`

	Schedules      []Schedule      `gorm:"foreignKey:TripDayID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
	ChecklistItems []ChecklistItem `gorm:"foreignKey:TripDayID;constraint:OnDelete:CASCADE" json:"checklist_items,omitempty"`
}
