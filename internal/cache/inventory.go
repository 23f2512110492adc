package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	TripKeyPrefix = "trip:%d"
	// Review detail is viewer-dependent (liked flag); only the
	// viewer-independent comment list is cached per review.
	ReviewCommentsKeyPrefix = "review:%d:comments"
	CitiesKey               = "cities:all"
	UserKeyPrefix           = "user:%d"
)

const (
	TripTTL   = 10 * time.Minute
	ReviewTTL = 10 * time.Minute
	// The city table is reference data and changes only on re-import.
	CitiesTTL = 12 * time.Hour
	UserTTL   = 5 * time.Minute
)

func TripKey(tripID uint) string {
	return fmt.Sprintf(TripKeyPrefix, tripID)
}

func ReviewCommentsKey(reviewID uint) string {
	return fmt.Sprintf(ReviewCommentsKeyPrefix, reviewID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateTrip(ctx context.Context, tripID uint) {
	Invalidate(ctx, TripKey(tripID))
}

func InvalidateReview(ctx context.Context, reviewID uint) {
	Invalidate(ctx, ReviewCommentsKey(reviewID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
