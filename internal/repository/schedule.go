package repository

import (
	"context"
	"errors"

	"planit/internal/cache"
	"planit/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository defines persistence operations for schedule entries.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, id uint) (*models.Schedule, error)
	ListByDay(ctx context.Context, dayID uint) ([]models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id uint) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository returns a new ScheduleRepository implementation.
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

// invalidateTripForDay drops the cached trip aggregate that embeds the
// day's schedules and checklist items.
func invalidateTripForDay(ctx context.Context, db *gorm.DB, dayID uint) {
	var tripID uint
	err := db.WithContext(ctx).Model(&models.TripDay{}).
		Where("id = ?", dayID).
		Select("trip_id").
		Scan(&tripID).Error
	if err == nil && tripID != 0 {
		cache.InvalidateTrip(ctx, tripID)
	}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, schedule.TripDayID)
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Schedule", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &schedule, nil
}

func (r *scheduleRepository) ListByDay(ctx context.Context, dayID uint) ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := r.db.WithContext(ctx).
		Where("trip_day_id = ?", dayID).
		Order("start_time, id").
		Find(&schedules).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	if err := r.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, schedule.TripDayID)
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uint) error {
	schedule, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Schedule{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, schedule.TripDayID)
	return nil
}

// ChecklistRepository defines persistence operations for checklist items.
type ChecklistRepository interface {
	Create(ctx context.Context, item *models.ChecklistItem) error
	GetByID(ctx context.Context, id uint) (*models.ChecklistItem, error)
	ListByDay(ctx context.Context, dayID uint) ([]models.ChecklistItem, error)
	Update(ctx context.Context, item *models.ChecklistItem) error
	Delete(ctx context.Context, id uint) error
}

type checklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository returns a new ChecklistRepository implementation.
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

func (r *checklistRepository) Create(ctx context.Context, item *models.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, item.TripDayID)
	return nil
}

func (r *checklistRepository) GetByID(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ChecklistItem", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &item, nil
}

func (r *checklistRepository) ListByDay(ctx context.Context, dayID uint) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	if err := r.db.WithContext(ctx).
		Where("trip_day_id = ?", dayID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *checklistRepository) Update(ctx context.Context, item *models.ChecklistItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, item.TripDayID)
	return nil
}

func (r *checklistRepository) Delete(ctx context.Context, id uint) error {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.ChecklistItem{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	invalidateTripForDay(ctx, r.db, item.TripDayID)
	return nil
}
