package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a write-up about a completed trip. CityID is a point-in-time
// snapshot of the trip's first city taken when the review is created; it is
// deliberately not kept in sync with later trip edits.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	TripID    uint           `gorm:"not null;index" json:"trip_id"`
	CityID    uint           `gorm:"not null" json:"city_id"`
	City      City           `gorm:"foreignKey:CityID" json:"-"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Rating    int            `gorm:"not null" json:"rating"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Username is not persisted; resolved at query time from the author.
	Username string `gorm:"->" json:"username"`
	// CityName is not persisted; resolved at query time from the snapshot city.
	CityName string `gorm:"->" json:"city_name"`
	// LikeCount is not persisted; a fresh aggregate count at query time.
	LikeCount int `gorm:"->" json:"like_count"`
	// Liked indicates whether the requesting user liked this review (computed).
	Liked bool `gorm:"->" json:"liked"`
	// PhotoURL is built from the first attached photo, if any.
	PhotoURL *string `gorm:"-" json:"photo_url"`

	Comments []Comment `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"comments"`
}

// Comment is a short reply under a review.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ReviewID  uint           `gorm:"not null;index" json:"review_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Username is not persisted; resolved at query time.
	Username string `gorm:"->" json:"username"`
}

// Photo records a stored photo object for a review. The binary lives in an
// external store; ObjectKey identifies it there.
type Photo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;index" json:"review_id"`
	ObjectKey string    `gorm:"size:64;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Like represents a user's like on a review.
// The combination of UserID and ReviewID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_review" json:"user_id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_user_review" json:"review_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Review Review `gorm:"foreignKey:ReviewID" json:"-"`
}

// LikeState is the response body for like toggle and count reads.
type LikeState struct {
	ReviewID  uint `json:"review_id"`
	LikeCount int  `json:"like_count"`
	Liked     bool `json:"liked"`
}
