package repository

import (
	"context"
	"errors"

	"planit/internal/cache"
	"planit/internal/models"

	"gorm.io/gorm"
)

// TripRepository defines persistence operations for the trip aggregate.
// All writes that touch more than one table run inside a single transaction
// so a trip is never observable with a partially applied day set.
type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id uint) (*models.Trip, error)
	GetWithRelations(ctx context.Context, id uint) (*models.Trip, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Trip, error)
	UpdateAggregate(ctx context.Context, trip *models.Trip, cities []models.TripCity, removedDayIDs []uint, appendDays []models.TripDay) error
	Delete(ctx context.Context, id uint) error

	GetDay(ctx context.Context, dayID uint) (*models.TripDay, error)
	GetDayWithTrip(ctx context.Context, dayID uint) (*models.TripDay, *models.Trip, error)
}

type tripRepository struct {
	db *gorm.DB
}

// NewTripRepository returns a new TripRepository implementation.
func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

// Create persists the trip together with its TripCities and TripDays in one
// transaction (GORM cascades the association inserts from the parent create).
func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tripRepository) GetByID(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Trip", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &trip, nil
}

// GetWithRelations loads the full aggregate: cities ordered by their interval
// start, days ordered by sequence, each day with its schedules and checklist.
// The aggregate is served cache-aside; every write to the trip or its
// children invalidates the key.
func (r *tripRepository) GetWithRelations(ctx context.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	err := cache.Aside(ctx, cache.TripKey(id), &trip, cache.TripTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("TripCities", func(db *gorm.DB) *gorm.DB {
				return db.Order("start_date, id")
			}).
			Preload("TripCities.City").
			Preload("TripDays", func(db *gorm.DB) *gorm.DB {
				return db.Order("day_sequence")
			}).
			Preload("TripDays.Schedules", func(db *gorm.DB) *gorm.DB {
				return db.Order("start_time, id")
			}).
			Preload("TripDays.ChecklistItems", func(db *gorm.DB) *gorm.DB {
				return db.Order("id")
			}).
			First(&trip, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Trip", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.WithContext(ctx).
		Preload("TripCities", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_date, id")
		}).
		Preload("TripCities.City").
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&trips).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return trips, nil
}

// UpdateAggregate applies a reconciled trip update atomically:
//   - the trip row itself (title and dates),
//   - a wholesale replacement of its TripCity rows,
//   - removal of trimmed days and everything attached to them,
//   - insertion of newly appended days.
//
// Surviving days are intentionally untouched so their IDs, schedules and
// checklist items remain stable across date changes.
func (r *tripRepository) UpdateAggregate(ctx context.Context, trip *models.Trip, cities []models.TripCity, removedDayIDs []uint, appendDays []models.TripDay) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Trip{}).
			Where("id = ?", trip.ID).
			Updates(map[string]any{
				"title":      trip.Title,
				"start_date": trip.StartDate,
				"end_date":   trip.EndDate,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.TripCity{}).Error; err != nil {
			return err
		}
		for i := range cities {
			cities[i].ID = 0
			cities[i].TripID = trip.ID
		}
		if len(cities) > 0 {
			if err := tx.Create(&cities).Error; err != nil {
				return err
			}
		}

		if len(removedDayIDs) > 0 {
			if err := tx.Where("trip_day_id IN ?", removedDayIDs).Delete(&models.Schedule{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trip_day_id IN ?", removedDayIDs).Delete(&models.ChecklistItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", removedDayIDs).Delete(&models.TripDay{}).Error; err != nil {
				return err
			}
		}

		if len(appendDays) > 0 {
			if err := tx.Create(&appendDays).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTrip(ctx, trip.ID)
	return nil
}

// Delete removes the trip and its entire aggregate. Children are removed
// explicitly rather than relying on database-level cascades.
func (r *tripRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dayIDs []uint
		if err := tx.Model(&models.TripDay{}).
			Where("trip_id = ?", id).
			Pluck("id", &dayIDs).Error; err != nil {
			return err
		}
		if len(dayIDs) > 0 {
			if err := tx.Where("trip_day_id IN ?", dayIDs).Delete(&models.Schedule{}).Error; err != nil {
				return err
			}
			if err := tx.Where("trip_day_id IN ?", dayIDs).Delete(&models.ChecklistItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("trip_id = ?", id).Delete(&models.TripDay{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&models.TripCity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Trip{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTrip(ctx, id)
	return nil
}

func (r *tripRepository) GetDay(ctx context.Context, dayID uint) (*models.TripDay, error) {
	var day models.TripDay
	if err := r.db.WithContext(ctx).First(&day, dayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("TripDay", dayID)
		}
		return nil, models.NewInternalError(err)
	}
	return &day, nil
}

// GetDayWithTrip loads a day and its owning trip in one call; handlers use it
// for ownership checks and to derive the day's calendar date.
func (r *tripRepository) GetDayWithTrip(ctx context.Context, dayID uint) (*models.TripDay, *models.Trip, error) {
	day, err := r.GetDay(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}
	var trip models.Trip
	if err := r.db.WithContext(ctx).First(&trip, day.TripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Trip", day.TripID)
		}
		return nil, nil, models.NewInternalError(err)
	}
	return day, &trip, nil
}
