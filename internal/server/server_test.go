package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planit/internal/config"
	"planit/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db := setupHandlerTestDB(t)
	cfg := &config.Config{
		Env:          "test",
		Port:         "0",
		JWTSecret:    "test-secret-which-is-long-enough",
		PhotoBaseURL: "http://localhost:8081",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return &testEnv{server: srv, app: app, db: db}
}

func (e *testEnv) signup(t *testing.T, username string) (uint, string) {
	t.Helper()
	body := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "SecurePass12!",
	}
	resp := e.request(t, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &out)
	return out.User.ID, out.Token
}

func (e *testEnv) request(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func seedHandlerCity(t *testing.T, db *gorm.DB, name string) *models.City {
	t.Helper()
	city := &models.City{CityName: name, Country: "South Korea", IsDomestic: true}
	require.NoError(t, db.Create(city).Error)
	return city
}

func TestHealthEndpoints(t *testing.T) {
	env := setupTestServer(t)

	resp := env.request(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Readiness reports degraded without Redis.
	resp = env.request(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	env := setupTestServer(t)

	_, token := env.signup(t, "wanderer")
	require.NotEmpty(t, token)

	// The token works on a protected route.
	resp := env.request(t, http.MethodGet, "/api/users/me", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// No token is rejected.
	resp = env.request(t, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Wrong password is rejected.
	resp = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "wanderer@example.com",
		"password": "WrongPass12!!",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct password returns a fresh token.
	resp = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "wanderer@example.com",
		"password": "SecurePass12!",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Weak password never creates an account.
	resp = env.request(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "weakling",
		"email":    "weak@example.com",
		"password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Duplicate email conflicts.
	resp = env.request(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "wanderer2",
		"email":    "wanderer@example.com",
		"password": "SecurePass12!",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTripLifecycleOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	city := seedHandlerCity(t, env.db, "Jeju")
	_, token := env.signup(t, "planner")

	create := map[string]any{
		"title":      "Jeju break",
		"start_date": "2026-05-01T00:00:00Z",
		"end_date":   "2026-05-03T00:00:00Z",
		"cities": []map[string]any{
			{"city_id": city.ID, "start_date": "2026-05-01T00:00:00Z", "end_date": "2026-05-03T00:00:00Z"},
		},
	}
	resp := env.request(t, http.MethodPost, "/api/trips/", create, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var trip models.Trip
	decodeBody(t, resp, &trip)
	require.Len(t, trip.TripDays, 3)

	// Shrink by one day over HTTP; the tail day disappears.
	update := map[string]any{
		"title":      "Jeju break",
		"start_date": "2026-05-01T00:00:00Z",
		"end_date":   "2026-05-02T00:00:00Z",
		"cities": []map[string]any{
			{"city_id": city.ID, "start_date": "2026-05-01T00:00:00Z", "end_date": "2026-05-02T00:00:00Z"},
		},
	}
	resp = env.request(t, http.MethodPut, "/api/trips/1", update, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Trip
	decodeBody(t, resp, &updated)
	assert.Len(t, updated.TripDays, 2)
	assert.Equal(t, trip.TripDays[0].ID, updated.TripDays[0].ID)

	// Another user cannot read it.
	_, otherToken := env.signup(t, "snooper")
	resp = env.request(t, http.MethodGet, "/api/trips/1", nil, otherToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Invalid ID is a 400, unknown ID a 404.
	resp = env.request(t, http.MethodGet, "/api/trips/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.request(t, http.MethodGet, "/api/trips/999", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/trips/1", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.request(t, http.MethodGet, "/api/trips/1", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScheduleAndChecklistOverHTTP(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.signup(t, "planner")

	resp := env.request(t, http.MethodPost, "/api/trips/", map[string]any{
		"title":      "Packing day",
		"start_date": "2026-05-01T00:00:00Z",
		"end_date":   "2026-05-01T00:00:00Z",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var trip models.Trip
	decodeBody(t, resp, &trip)
	dayID := trip.TripDays[0].ID

	resp = env.request(t, http.MethodPost, "/api/days/1/schedules", map[string]any{
		"title":      "Museum",
		"place_name": "National Museum",
		"start_time": "2026-05-01T10:00:00Z",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var schedule models.Schedule
	resp = env.request(t, http.MethodGet, "/api/schedules/1", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &schedule)
	assert.Equal(t, "Museum", schedule.Title)

	resp = env.request(t, http.MethodPost, "/api/days/1/checklist", map[string]any{
		"content": "Charger",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item models.ChecklistItem
	decodeBody(t, resp, &item)

	resp = env.request(t, http.MethodPut, "/api/checklist/1", map[string]any{
		"content":    "Charger",
		"is_checked": true,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var day struct {
		ID             uint                   `json:"id"`
		Date           time.Time              `json:"date"`
		Schedules      []models.Schedule      `json:"schedules"`
		ChecklistItems []models.ChecklistItem `json:"checklist_items"`
	}
	resp = env.request(t, http.MethodGet, "/api/days/1", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &day)
	assert.Equal(t, dayID, day.ID)
	require.Len(t, day.Schedules, 1)
	require.Len(t, day.ChecklistItems, 1)
	assert.True(t, day.ChecklistItems[0].IsChecked)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), day.Date)
}
