// Package seed populates the database with realistic fake data for local
// development and demos.
package seed

import (
	"fmt"
	"log"

	"planit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	Users        int
	TripsPerUser int
	// ReviewRatio is the fraction of trips that get a review, 0..1.
	ReviewRatio float64
}

// Seeder orchestrates factory runs against one database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded rows, children first. The city catalog is kept.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Like{},
		&models.Comment{},
		&models.Photo{},
		&models.Review{},
		&models.Schedule{},
		&models.ChecklistItem{},
		&models.TripDay{},
		&models.TripCity{},
		&models.Trip{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	return nil
}

// Run generates users, trips with full day plans, and reviews with likes and
// comments according to opts.
func (s *Seeder) Run(opts Options) error {
	if opts.Users <= 0 {
		opts.Users = 20
	}
	if opts.TripsPerUser <= 0 {
		opts.TripsPerUser = 2
	}
	if opts.ReviewRatio <= 0 || opts.ReviewRatio > 1 {
		opts.ReviewRatio = 0.6
	}

	if err := Cities(s.db); err != nil {
		return fmt.Errorf("seeding cities: %w", err)
	}
	var cities []models.City
	if err := s.db.Find(&cities).Error; err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	var reviews []*models.Review
	tripCount := 0
	for _, user := range users {
		for i := 0; i < opts.TripsPerUser; i++ {
			trip, err := s.factory.CreateTrip(user, cities)
			if err != nil {
				return fmt.Errorf("creating trip: %w", err)
			}
			tripCount++

			if gofakeit.Float64Range(0, 1) < opts.ReviewRatio && len(trip.TripCities) > 0 {
				review, err := s.factory.CreateReview(trip)
				if err != nil {
					return fmt.Errorf("creating review: %w", err)
				}
				reviews = append(reviews, review)
			}
		}
	}
	log.Printf("Seeded %d trips, %d reviews", tripCount, len(reviews))

	// Cross-pollinate likes and comments.
	likeCount, commentCount := 0, 0
	for _, review := range reviews {
		for _, user := range users {
			if user.ID == review.UserID {
				continue
			}
			if gofakeit.Float64Range(0, 1) < 0.2 {
				if err := s.factory.CreateLike(user, review); err != nil {
					return fmt.Errorf("creating like: %w", err)
				}
				likeCount++
			}
			if gofakeit.Float64Range(0, 1) < 0.1 {
				if _, err := s.factory.CreateComment(user, review); err != nil {
					return fmt.Errorf("creating comment: %w", err)
				}
				commentCount++
			}
		}
	}
	log.Printf("Seeded %d likes, %d comments", likeCount, commentCount)

	return nil
}
