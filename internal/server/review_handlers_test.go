package server

import (
	"net/http"
	"testing"

	"planit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReviewOverHTTP(t *testing.T, env *testEnv, token string, cityName string) *models.Review {
	t.Helper()
	city := seedHandlerCity(t, env.db, cityName)

	resp := env.request(t, http.MethodPost, "/api/trips/", map[string]any{
		"title":      "Reviewed trip",
		"start_date": "2026-03-01T00:00:00Z",
		"end_date":   "2026-03-03T00:00:00Z",
		"cities": []map[string]any{
			{"city_id": city.ID, "start_date": "2026-03-01T00:00:00Z", "end_date": "2026-03-03T00:00:00Z"},
		},
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var trip models.Trip
	decodeBody(t, resp, &trip)

	resp = env.request(t, http.MethodPost, "/api/reviews/", map[string]any{
		"trip_id": trip.ID,
		"title":   "Great trip",
		"content": "Would go again",
		"rating":  5,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var review models.Review
	decodeBody(t, resp, &review)
	return &review
}

func TestReviewFeedAndDetail(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.signup(t, "alice")
	review := createReviewOverHTTP(t, env, token, "Jeju")

	// Anonymous feed read works; snapshot city name is resolved.
	resp := env.request(t, http.MethodGet, "/api/reviews/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []models.Review
	decodeBody(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "Jeju", feed[0].CityName)
	assert.Equal(t, "alice", feed[0].Username)
	assert.False(t, feed[0].Liked)

	// City filter that matches nothing.
	resp = env.request(t, http.MethodGet, "/api/reviews/?city_id=999", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	assert.Empty(t, feed)

	// Detail.
	resp = env.request(t, http.MethodGet, "/api/reviews/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail models.Review
	decodeBody(t, resp, &detail)
	assert.Equal(t, review.ID, detail.ID)

	resp = env.request(t, http.MethodGet, "/api/reviews/999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikeToggleOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	_, authorToken := env.signup(t, "alice")
	review := createReviewOverHTTP(t, env, authorToken, "Jeju")
	_, fanToken := env.signup(t, "bob")

	// Like.
	resp := env.request(t, http.MethodPost, "/api/reviews/1/like", nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state models.LikeState
	decodeBody(t, resp, &state)
	assert.Equal(t, review.ID, state.ReviewID)
	assert.True(t, state.Liked)
	assert.Equal(t, 1, state.LikeCount)

	// Toggle back.
	resp = env.request(t, http.MethodPost, "/api/reviews/1/like", nil, fanToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &state)
	assert.False(t, state.Liked)
	assert.Zero(t, state.LikeCount)

	// Anonymous users can read like state but not toggle.
	resp = env.request(t, http.MethodGet, "/api/reviews/1/like", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.request(t, http.MethodPost, "/api/reviews/1/like", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReviewOwnershipOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	_, authorToken := env.signup(t, "alice")
	createReviewOverHTTP(t, env, authorToken, "Jeju")
	_, otherToken := env.signup(t, "bob")

	edit := map[string]any{"title": "Hijacked", "content": "x", "rating": 1}
	resp := env.request(t, http.MethodPut, "/api/reviews/1", edit, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/reviews/1", nil, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/reviews/1", edit, authorToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Review
	decodeBody(t, resp, &updated)
	assert.Equal(t, "Hijacked", updated.Title)
}

func TestCommentsOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	_, authorToken := env.signup(t, "alice")
	createReviewOverHTTP(t, env, authorToken, "Jeju")
	_, fanToken := env.signup(t, "bob")

	resp := env.request(t, http.MethodPost, "/api/reviews/1/comments", map[string]any{
		"content": "Saving this itinerary",
	}, fanToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var detail models.Review
	resp = env.request(t, http.MethodGet, "/api/reviews/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "bob", detail.Comments[0].Username)

	// Anonymous readers can list comments directly.
	var comments []models.Comment
	resp = env.request(t, http.MethodGet, "/api/reviews/1/comments", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 1)

	resp = env.request(t, http.MethodGet, "/api/reviews/999/comments", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Empty comments are rejected.
	resp = env.request(t, http.MethodPost, "/api/reviews/1/comments", map[string]any{
		"content": "",
	}, fanToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/comments/1", nil, fanToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReviewPhotosOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.signup(t, "alice")
	createReviewOverHTTP(t, env, token, "Jeju")

	resp := env.request(t, http.MethodPost, "/api/reviews/1/photos", nil, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		Photo    models.Photo `json:"photo"`
		PhotoURL string       `json:"photo_url"`
	}
	decodeBody(t, resp, &out)
	assert.Contains(t, out.PhotoURL, "/reviews/1/photos/")

	// The feed now carries the photo URL.
	var feed []models.Review
	resp = env.request(t, http.MethodGet, "/api/reviews/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].PhotoURL)

	resp = env.request(t, http.MethodDelete, "/api/reviews/1/photos/1", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCityEndpoints(t *testing.T) {
	env := setupTestServer(t)
	seedHandlerCity(t, env.db, "Seoul")
	seedHandlerCity(t, env.db, "Sokcho")

	var cities []models.City
	resp := env.request(t, http.MethodGet, "/api/cities/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cities)
	assert.Len(t, cities, 2)

	resp = env.request(t, http.MethodGet, "/api/cities/search?q=Sok", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cities)
	require.Len(t, cities, 1)
	assert.Equal(t, "Sokcho", cities[0].CityName)

	resp = env.request(t, http.MethodGet, "/api/cities/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var city models.City
	resp = env.request(t, http.MethodGet, "/api/cities/1", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &city)
	assert.Equal(t, "Seoul", city.CityName)

	resp = env.request(t, http.MethodGet, "/api/cities/999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
