package models

import "time"

// Schedule is a single activity attached to a trip day.
type Schedule struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TripDayID uint       `gorm:"not null;index" json:"trip_day_id"`
	Title     string     `gorm:"size:100;not null" json:"title"`
	Memo      string     `gorm:"type:text" json:"memo"`
	PlaceName string     `gorm:"size:100" json:"place_name"`
	Lat       *float64   `json:"lat"`
	Lon       *float64   `json:"lon"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ChecklistItem is a to-pack/to-do entry attached to a trip day.
type ChecklistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TripDayID uint      `gorm:"not null;index" json:"trip_day_id"`
	Content   string    `gorm:"size:255;not null" json:"content"`
	IsChecked bool      `gorm:"not null;default:false" json:"is_checked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
