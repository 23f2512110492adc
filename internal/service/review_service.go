package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"planit/internal/middleware"
	"planit/internal/models"
	"planit/internal/repository"
)

// ReviewService implements trip reviews, likes, comments and photos.
type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	tripRepo     repository.TripRepository
	photoBaseURL string
}

// NewReviewService returns a new ReviewService. photoBaseURL is the public
// base under which photo raw-content URLs are built.
func NewReviewService(reviewRepo repository.ReviewRepository, tripRepo repository.TripRepository, photoBaseURL string) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		tripRepo:     tripRepo,
		photoBaseURL: photoBaseURL,
	}
}

// ReviewInput is the body of a review create or update request.
type ReviewInput struct {
	TripID  uint   `json:"trip_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

func (in ReviewInput) validate() error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if in.Content == "" {
		return models.NewValidationError("Content is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return models.NewValidationError("Rating must be between 1 and 5")
	}
	return nil
}

// snapshotCityID picks the review's city from the trip's city intervals: the
// one that starts earliest, with the lower city ID breaking ties. The chosen
// ID is frozen on the review and never follows later trip edits.
func snapshotCityID(trip *models.Trip) (uint, error) {
	if len(trip.TripCities) == 0 {
		return 0, models.NewValidationError("Trip has no cities to review")
	}
	best := trip.TripCities[0]
	for _, tc := range trip.TripCities[1:] {
		if tc.StartDate.Before(best.StartDate) ||
			(tc.StartDate.Equal(best.StartDate) && tc.CityID < best.CityID) {
			best = tc
		}
	}
	return best.CityID, nil
}

// CreateReview creates the review for one of the author's trips. A trip can
// be reviewed only once.
func (s *ReviewService) CreateReview(ctx context.Context, userID uint, in ReviewInput) (*models.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetWithRelations(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, models.NewForbiddenError("You can only review your own trips")
	}

	existing, err := s.reviewRepo.GetByTripID(ctx, in.TripID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Trip already has a review")
	}

	cityID, err := snapshotCityID(trip)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		UserID:  userID,
		TripID:  in.TripID,
		CityID:  cityID,
		Title:   in.Title,
		Content: in.Content,
		Rating:  in.Rating,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return s.GetReview(ctx, review.ID, userID)
}

// GetReview returns the review enriched with author, snapshot city name,
// like state for the viewer, comments and the first photo's URL.
func (s *ReviewService) GetReview(ctx context.Context, reviewID, viewerID uint) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.reviewRepo.ListComments(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	review.Comments = comments

	if err := s.attachPhotoURL(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) attachPhotoURL(ctx context.Context, review *models.Review) error {
	photoID, err := s.reviewRepo.FirstPhotoID(ctx, review.ID)
	if err != nil {
		return err
	}
	if photoID != nil {
		url := s.PhotoURL(review.ID, *photoID)
		review.PhotoURL = &url
	}
	return nil
}

// PhotoURL builds the public raw-content URL for a review photo.
func (s *ReviewService) PhotoURL(reviewID, photoID uint) string {
	return fmt.Sprintf("%s/reviews/%d/photos/%d/raw", s.photoBaseURL, reviewID, photoID)
}

// ListReviews returns the public review feed, optionally filtered by the
// snapshot city.
func (s *ReviewService) ListReviews(ctx context.Context, viewerID uint, cityID *uint, limit, offset int) ([]models.Review, error) {
	reviews, err := s.reviewRepo.List(ctx, viewerID, cityID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if err := s.attachPhotoURL(ctx, &reviews[i]); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

func (s *ReviewService) ListUserReviews(ctx context.Context, userID, viewerID uint, limit, offset int) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if err := s.attachPhotoURL(ctx, &reviews[i]); err != nil {
			return nil, err
		}
	}
	return reviews, nil
}

// UpdateReview edits title, content and rating. The snapshot city is frozen.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uint, in ReviewInput) (*models.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own reviews")
	}

	review.Title = in.Title
	review.Content = in.Content
	review.Rating = in.Rating
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.GetReview(ctx, reviewID, userID)
}

func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return models.NewForbiddenError("You can only delete your own reviews")
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// ToggleLike flips the user's like on a review: liked becomes unliked and
// vice versa. The returned state carries a fresh count taken after the flip.
func (s *ReviewService) ToggleLike(ctx context.Context, userID, reviewID uint) (*models.LikeState, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.reviewRepo.IsLiked(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.reviewRepo.DeleteLike(ctx, userID, reviewID); err != nil {
			return nil, err
		}
		middleware.LikeToggles.WithLabelValues("unliked").Inc()
	} else {
		if err := s.reviewRepo.CreateLike(ctx, userID, reviewID); err != nil {
			return nil, err
		}
		middleware.LikeToggles.WithLabelValues("liked").Inc()
	}

	count, err := s.reviewRepo.CountLikes(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &models.LikeState{
		ReviewID:  reviewID,
		LikeCount: count,
		Liked:     !isLiked,
	}, nil
}

// LikeState reads the current like count and the viewer's liked flag
// without changing anything.
func (s *ReviewService) LikeState(ctx context.Context, reviewID, viewerID uint) (*models.LikeState, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID, viewerID); err != nil {
		return nil, err
	}
	count, err := s.reviewRepo.CountLikes(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	liked := false
	if viewerID != 0 {
		liked, err = s.reviewRepo.IsLiked(ctx, viewerID, reviewID)
		if err != nil {
			return nil, err
		}
	}
	return &models.LikeState{ReviewID: reviewID, LikeCount: count, Liked: liked}, nil
}

// AddComment appends a comment under a review.
func (s *ReviewService) AddComment(ctx context.Context, reviewID, userID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if _, err := s.reviewRepo.GetByID(ctx, reviewID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{ReviewID: reviewID, UserID: userID, Content: content}
	if err := s.reviewRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a review's comments without the rest of the detail payload.
func (s *ReviewService) ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID, 0); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListComments(ctx, reviewID)
}

// DeleteComment removes a comment. The comment's author and the review's
// author may both delete it.
func (s *ReviewService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.reviewRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		review, err := s.reviewRepo.GetByID(ctx, comment.ReviewID, userID)
		if err != nil {
			return err
		}
		if review.UserID != userID {
			return models.NewForbiddenError("You cannot delete this comment")
		}
	}
	return s.reviewRepo.DeleteComment(ctx, commentID)
}

// AttachPhoto registers a stored photo object for a review and returns the
// photo with its public URL.
func (s *ReviewService) AttachPhoto(ctx context.Context, reviewID, userID uint) (*models.Photo, string, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID, userID)
	if err != nil {
		return nil, "", err
	}
	if review.UserID != userID {
		return nil, "", models.NewForbiddenError("You can only add photos to your own reviews")
	}

	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		return nil, "", models.NewInternalError(err)
	}
	photo := &models.Photo{ReviewID: reviewID, ObjectKey: hex.EncodeToString(key)}
	if err := s.reviewRepo.CreatePhoto(ctx, photo); err != nil {
		return nil, "", err
	}
	return photo, s.PhotoURL(reviewID, photo.ID), nil
}

// RemovePhoto deletes a photo record from the author's review.
func (s *ReviewService) RemovePhoto(ctx context.Context, reviewID, photoID, userID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return models.NewForbiddenError("You can only remove photos from your own reviews")
	}
	photo, err := s.reviewRepo.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.ReviewID != reviewID {
		return models.NewNotFoundError("Photo", photoID)
	}
	return s.reviewRepo.DeletePhoto(ctx, photoID)
}
