package repository

import (
	"context"
	"errors"

	"planit/internal/cache"
	"planit/internal/models"

	"gorm.io/gorm"
)

// CityRepository defines read access to the city reference table.
type CityRepository interface {
	GetByID(ctx context.Context, id uint) (*models.City, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.City, error)
	List(ctx context.Context) ([]models.City, error)
	Search(ctx context.Context, query string, limit int) ([]models.City, error)
	BulkCreate(ctx context.Context, cities []models.City) error
}

type cityRepository struct {
	db *gorm.DB
}

// NewCityRepository returns a new CityRepository implementation.
func NewCityRepository(db *gorm.DB) CityRepository {
	return &cityRepository{db: db}
}

func (r *cityRepository) GetByID(ctx context.Context, id uint) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("City", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &city, nil
}

func (r *cityRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.City, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cities []models.City
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cities, nil
}

func (r *cityRepository) List(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	err := cache.Aside(ctx, cache.CitiesKey, &cities, cache.CitiesTTL, func() error {
		if err := r.db.WithContext(ctx).Order("id").Find(&cities).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *cityRepository) Search(ctx context.Context, query string, limit int) ([]models.City, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var cities []models.City
	pattern := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("city_name LIKE ? OR ko_name LIKE ? OR country LIKE ?", pattern, pattern, pattern).
		Order("id").
		Limit(limit).
		Find(&cities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cities, nil
}

func (r *cityRepository) BulkCreate(ctx context.Context, cities []models.City) error {
	if len(cities) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(cities, 200).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CitiesKey)
	return nil
}
