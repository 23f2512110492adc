package repository

import (
	"context"
	"testing"

	"planit/internal/cache"
	"planit/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestRedis backs the cache with an in-process redis for the duration
// of the test.
func withTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestUserRepository_CachedReadKeepsPasswordHash(t *testing.T) {
	db := setupTestDB(t)
	withTestRedis(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "mina", Email: "mina@example.com", Password: "$2a$10$realhash"}
	require.NoError(t, repo.Create(ctx, user))

	first, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$realhash", first.Password)

	// Second read is a cache hit and must carry the same hash.
	second, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$realhash", second.Password)
}

func TestUserRepository_UpdateLeavesPasswordUntouched(t *testing.T) {
	db := setupTestDB(t)
	withTestRedis(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "mina", Email: "mina@example.com", Password: "$2a$10$realhash"}
	require.NoError(t, repo.Create(ctx, user))

	// Warm the cache, then rename through a cache-served read.
	_, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	cached, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)

	cached.Username = "mina2"
	require.NoError(t, repo.Update(ctx, cached))

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, "mina2", fresh.Username)
	assert.Equal(t, "$2a$10$realhash", fresh.Password)
}

func TestTripRepository_AggregateCacheLifecycle(t *testing.T) {
	db := setupTestDB(t)
	mr := withTestRedis(t)
	tripRepo := NewTripRepository(db)
	scheduleRepo := NewScheduleRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "planner")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, user.ID, city.ID, date(2026, 5, 1), date(2026, 5, 3))

	loaded, err := tripRepo.GetWithRelations(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, loaded.TripDays, 3)
	assert.True(t, mr.Exists(cache.TripKey(trip.ID)))

	// A cache hit serves the aggregate even when the row changed underneath.
	require.NoError(t, db.Model(&models.Trip{}).Where("id = ?", trip.ID).
		Update("title", "Renamed behind the cache").Error)
	stale, err := tripRepo.GetWithRelations(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test trip", stale.Title)

	// A child write drops the cached aggregate.
	err = scheduleRepo.Create(ctx, &models.Schedule{
		TripDayID: loaded.TripDays[0].ID,
		Title:     "Hallasan hike",
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.TripKey(trip.ID)))

	fresh, err := tripRepo.GetWithRelations(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed behind the cache", fresh.Title)
	require.Len(t, fresh.TripDays[0].Schedules, 1)
}

func TestReviewRepository_CommentListCacheLifecycle(t *testing.T) {
	db := setupTestDB(t)
	mr := withTestRedis(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "critic")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, user.ID, city.ID, date(2026, 5, 1), date(2026, 5, 2))
	review := createTestReview(t, db, user.ID, trip.ID, city.ID)

	comments, err := repo.ListComments(ctx, review.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	assert.True(t, mr.Exists(cache.ReviewCommentsKey(review.ID)))

	// Creating a comment invalidates the list, so the next read sees it.
	comment := &models.Comment{ReviewID: review.ID, UserID: user.ID, Content: "Agreed on the lines"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	assert.False(t, mr.Exists(cache.ReviewCommentsKey(review.ID)))

	comments, err = repo.ListComments(ctx, review.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "critic", comments[0].Username)

	require.NoError(t, repo.DeleteComment(ctx, comment.ID))
	comments, err = repo.ListComments(ctx, review.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
