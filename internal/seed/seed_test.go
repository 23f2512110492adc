package seed

import (
	"testing"

	"planit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Trip{},
		&models.TripCity{},
		&models.TripDay{},
		&models.Schedule{},
		&models.ChecklistItem{},
		&models.Review{},
		&models.Comment{},
		&models.Photo{},
		&models.Like{},
	))
	return db
}

func TestCities_IdempotentLoad(t *testing.T) {
	db := setupSeedDB(t)

	require.NoError(t, Cities(db))
	var first int64
	db.Model(&models.City{}).Count(&first)
	assert.EqualValues(t, len(cityCatalog), first)

	// Re-running must not duplicate the catalog.
	require.NoError(t, Cities(db))
	var second int64
	db.Model(&models.City{}).Count(&second)
	assert.Equal(t, first, second)
}

func TestSeeder_RunProducesConsistentTrips(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{Users: 5, TripsPerUser: 2, ReviewRatio: 1}))

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 5, users)

	var trips []models.Trip
	require.NoError(t, db.Preload("TripDays").Preload("TripCities").Find(&trips).Error)
	require.Len(t, trips, 10)

	for _, trip := range trips {
		assert.Len(t, trip.TripDays, trip.DurationDays(),
			"trip %d must have one day per calendar day", trip.ID)
		seen := map[int]bool{}
		for _, day := range trip.TripDays {
			assert.False(t, seen[day.DaySequence], "duplicate sequence in trip %d", trip.ID)
			seen[day.DaySequence] = true
			assert.GreaterOrEqual(t, day.DaySequence, 1)
			assert.LessOrEqual(t, day.DaySequence, trip.DurationDays())
		}
		assert.NotEmpty(t, trip.TripCities)
	}

	// Every review snapshots a city that belongs to its trip.
	var reviews []models.Review
	require.NoError(t, db.Find(&reviews).Error)
	require.Len(t, reviews, 10)
	for _, review := range reviews {
		var count int64
		db.Model(&models.TripCity{}).
			Where("trip_id = ? AND city_id = ?", review.TripID, review.CityID).
			Count(&count)
		assert.NotZero(t, count, "review %d city must come from its trip", review.ID)
	}
}

func TestSeeder_ClearAllKeepsCities(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)
	require.NoError(t, s.Run(Options{Users: 3, TripsPerUser: 1}))

	require.NoError(t, s.ClearAll())

	var users, trips, cities int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Trip{}).Count(&trips)
	db.Model(&models.City{}).Count(&cities)
	assert.Zero(t, users)
	assert.Zero(t, trips)
	assert.EqualValues(t, len(cityCatalog), cities)
}
