package repository

import (
	"context"
	"errors"

	"planit/internal/cache"
	"planit/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews, likes,
// comments and photos.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id, viewerID uint) (*models.Review, error)
	List(ctx context.Context, viewerID uint, cityID *uint, limit, offset int) ([]models.Review, error)
	ListByUser(ctx context.Context, userID, viewerID uint, limit, offset int) ([]models.Review, error)
	GetByTripID(ctx context.Context, tripID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error

	IsLiked(ctx context.Context, userID, reviewID uint) (bool, error)
	CreateLike(ctx context.Context, userID, reviewID uint) error
	DeleteLike(ctx context.Context, userID, reviewID uint) error
	CountLikes(ctx context.Context, reviewID uint) (int, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error

	CreatePhoto(ctx context.Context, photo *models.Photo) error
	GetPhoto(ctx context.Context, id uint) (*models.Photo, error)
	FirstPhotoID(ctx context.Context, reviewID uint) (*uint, error)
	DeletePhoto(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// withDetails adds subqueries resolving the author's username, the snapshot
// city name, the like count and the viewer's liked flag in a single query.
func (r *reviewRepository) withDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "reviews.*, " +
		"(SELECT username FROM users WHERE users.id = reviews.user_id) as username, " +
		"(SELECT city_name FROM cities WHERE cities.id = reviews.city_id) as city_name, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.review_id = reviews.id) as like_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.review_id = reviews.id AND likes.user_id = ?) as liked", viewerID)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id, viewerID uint) (*models.Review, error) {
	var review models.Review
	err := r.withDetails(r.db.WithContext(ctx).Model(&models.Review{}), viewerID).
		Where("reviews.id = ?", id).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, viewerID uint, cityID *uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := r.withDetails(r.db.WithContext(ctx).Model(&models.Review{}), viewerID)
	if cityID != nil {
		query = query.Where("reviews.city_id = ?", *cityID)
	}
	err := query.
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID, viewerID uint, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.withDetails(r.db.WithContext(ctx).Model(&models.Review{}), viewerID).
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// GetByTripID returns the review written for a trip, or nil when none exists.
func (r *reviewRepository) GetByTripID(ctx context.Context, tripID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Where("trip_id = ?", tripID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"title":   review.Title,
			"content": review.Content,
			"rating":  review.Rating,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateReview(ctx, review.ID)
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Review{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateReview(ctx, id)
	return nil
}

func (r *reviewRepository) IsLiked(ctx context.Context, userID, reviewID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *reviewRepository) CreateLike(ctx context.Context, userID, reviewID uint) error {
	like := models.Like{UserID: userID, ReviewID: reviewID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		// A concurrent toggle can race on the unique (user_id, review_id)
		// index; the like already exists, which is the state we wanted.
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) DeleteLike(ctx context.Context, userID, reviewID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) CountLikes(ctx context.Context, reviewID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return int(count), nil
}

func (r *reviewRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateReview(ctx, comment.ReviewID)
	return nil
}

func (r *reviewRepository) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListComments is viewer-independent, so the resolved list is served
// cache-aside under the review's comments key.
func (r *reviewRepository) ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := cache.Aside(ctx, cache.ReviewCommentsKey(reviewID), &comments, cache.ReviewTTL, func() error {
		err := r.db.WithContext(ctx).Model(&models.Comment{}).
			Select("comments.*, (SELECT username FROM users WHERE users.id = comments.user_id) as username").
			Where("comments.review_id = ?", reviewID).
			Order("comments.created_at, comments.id").
			Find(&comments).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *reviewRepository) DeleteComment(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("review_id").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateReview(ctx, comment.ReviewID)
	return nil
}

func (r *reviewRepository) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reviewRepository) GetPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &photo, nil
}

// FirstPhotoID returns the oldest photo attached to a review, or nil.
func (r *reviewRepository) FirstPhotoID(ctx context.Context, reviewID uint) (*uint, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("id").
		First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &photo.ID, nil
}

func (r *reviewRepository) DeletePhoto(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Photo{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
