package service

import (
	"context"
	"testing"

	"planit/internal/cache"
	"planit/internal/models"
	"planit/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_PreservesPasswordHash(t *testing.T) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "$2a$10$realhash"}
	require.NoError(t, db.Create(user).Error)

	// Two reads so the rename below goes through a cache-served user.
	_, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, "alice2", fresh.Username)
	assert.Equal(t, "$2a$10$realhash", fresh.Password)
}

func TestUserService_UpdateProfile_RejectsLongUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	_, err := svc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   user.ID,
		Username: "this-username-is-way-over-thirty-characters-long",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
