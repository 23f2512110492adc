package repository

import (
	"context"
	"testing"
	"time"

	"planit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestReview(t *testing.T, db *gorm.DB, userID, tripID, cityID uint) *models.Review {
	t.Helper()
	review := &models.Review{
		UserID:  userID,
		TripID:  tripID,
		CityID:  cityID,
		Title:   "Great food, long lines",
		Content: "Worth it.",
		Rating:  4,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestReviewRepository_GetByID_ResolvesDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	city := createTestCity(t, db, "Jeonju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))
	review := createTestReview(t, db, author.ID, trip.ID, city.ID)

	require.NoError(t, repo.CreateLike(ctx, viewer.ID, review.ID))

	loaded, err := repo.GetByID(ctx, review.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Username)
	assert.Equal(t, "Jeonju", loaded.CityName)
	assert.Equal(t, 1, loaded.LikeCount)
	assert.True(t, loaded.Liked)

	// An anonymous viewer sees the count but never a liked flag.
	anon, err := repo.GetByID(ctx, review.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, anon.LikeCount)
	assert.False(t, anon.Liked)
}

func TestReviewRepository_List_FiltersByCity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	jeju := createTestCity(t, db, "Jeju")
	busan := createTestCity(t, db, "Busan")
	tripA := createTestTrip(t, db, author.ID, jeju.ID, date(2026, 3, 1), date(2026, 3, 2))
	tripB := createTestTrip(t, db, author.ID, busan.ID, date(2026, 4, 1), date(2026, 4, 2))
	createTestReview(t, db, author.ID, tripA.ID, jeju.ID)
	createTestReview(t, db, author.ID, tripB.ID, busan.ID)

	all, err := repo.List(ctx, 0, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, 0, &jeju.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, jeju.ID, filtered[0].CityID)
	assert.Equal(t, "Jeju", filtered[0].CityName)
}

func TestReviewRepository_GetByTripID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))

	none, err := repo.GetByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	created := createTestReview(t, db, author.ID, trip.ID, city.ID)
	found, err := repo.GetByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestReviewRepository_LikeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	fan := createTestUser(t, db, "bob")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))
	review := createTestReview(t, db, author.ID, trip.ID, city.ID)

	liked, err := repo.IsLiked(ctx, fan.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, repo.CreateLike(ctx, fan.ID, review.ID))
	// Racing create of the same like is absorbed, not surfaced.
	require.NoError(t, repo.CreateLike(ctx, fan.ID, review.ID))

	count, err := repo.CountLikes(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteLike(ctx, fan.ID, review.ID))
	count, err = repo.CountLikes(ctx, review.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReviewRepository_Delete_RemovesDependents(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	fan := createTestUser(t, db, "bob")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))
	review := createTestReview(t, db, author.ID, trip.ID, city.ID)

	require.NoError(t, repo.CreateLike(ctx, fan.ID, review.ID))
	require.NoError(t, repo.CreateComment(ctx, &models.Comment{ReviewID: review.ID, UserID: fan.ID, Content: "nice"}))
	require.NoError(t, repo.CreatePhoto(ctx, &models.Photo{ReviewID: review.ID, ObjectKey: "abc123"}))

	require.NoError(t, repo.Delete(ctx, review.ID))

	var likes, comments, photos int64
	db.Model(&models.Like{}).Where("review_id = ?", review.ID).Count(&likes)
	db.Unscoped().Model(&models.Comment{}).Where("review_id = ? AND deleted_at IS NULL", review.ID).Count(&comments)
	db.Model(&models.Photo{}).Where("review_id = ?", review.ID).Count(&photos)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, photos)
}

func TestReviewRepository_Comments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	fan := createTestUser(t, db, "bob")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))
	review := createTestReview(t, db, author.ID, trip.ID, city.ID)

	first := &models.Comment{ReviewID: review.ID, UserID: fan.ID, Content: "first"}
	require.NoError(t, repo.CreateComment(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &models.Comment{ReviewID: review.ID, UserID: author.ID, Content: "thanks"}
	require.NoError(t, repo.CreateComment(ctx, second))

	comments, err := repo.ListComments(ctx, review.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "bob", comments[0].Username)
	assert.Equal(t, "alice", comments[1].Username)
}

func TestReviewRepository_FirstPhotoID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	city := createTestCity(t, db, "Jeju")
	trip := createTestTrip(t, db, author.ID, city.ID, date(2026, 3, 1), date(2026, 3, 2))
	review := createTestReview(t, db, author.ID, trip.ID, city.ID)

	id, err := repo.FirstPhotoID(ctx, review.ID)
	require.NoError(t, err)
	assert.Nil(t, id)

	oldest := &models.Photo{ReviewID: review.ID, ObjectKey: "k1"}
	require.NoError(t, repo.CreatePhoto(ctx, oldest))
	require.NoError(t, repo.CreatePhoto(ctx, &models.Photo{ReviewID: review.ID, ObjectKey: "k2"}))

	id, err = repo.FirstPhotoID(ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, oldest.ID, *id)
}
