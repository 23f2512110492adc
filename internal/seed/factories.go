package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"planit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory creates fake but structurally valid records one at a time.
type Factory struct {
	db *gorm.DB
}

func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// testPasswordHash is a bcrypt hash of "password123" at minimal cost; real
// hashing per fake user would dominate the seeder's runtime.
var testPasswordHash = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 9999))
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, gofakeit.DomainName()),
		Password: testPasswordHash,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTrip builds a trip over 1-3 of the given cities with a full day set
// and a sprinkling of schedules and checklist items.
func (f *Factory) CreateTrip(user *models.User, cities []models.City) (*models.Trip, error) {
	start := gofakeit.DateRange(
		time.Now().AddDate(-1, 0, 0),
		time.Now().AddDate(0, 6, 0),
	).Truncate(24 * time.Hour)
	duration := gofakeit.Number(1, 10)
	end := start.AddDate(0, 0, duration-1)

	trip := &models.Trip{
		Title:     fmt.Sprintf("%s trip", gofakeit.HipsterWord()),
		StartDate: start,
		EndDate:   end,
		UserID:    user.ID,
	}

	// Split the trip range over the chosen cities sequentially.
	chosen := pickCities(cities, gofakeit.Number(1, 3))
	cursor := start
	for i, city := range chosen {
		cityEnd := end
		if remaining := len(chosen) - i - 1; remaining > 0 {
			span := int(end.Sub(cursor).Hours()/24) - remaining
			if span < 0 {
				span = 0
			}
			cityEnd = cursor.AddDate(0, 0, gofakeit.Number(0, span))
		}
		trip.TripCities = append(trip.TripCities, models.TripCity{
			CityID:    city.ID,
			StartDate: cursor,
			EndDate:   cityEnd,
		})
		cursor = cityEnd.AddDate(0, 0, 1)
		if cursor.After(end) {
			break
		}
	}

	for seq := 1; seq <= duration; seq++ {
		trip.TripDays = append(trip.TripDays, models.TripDay{DaySequence: seq})
	}

	if err := f.db.Create(trip).Error; err != nil {
		return nil, err
	}

	for i := range trip.TripDays {
		if err := f.fillDay(&trip.TripDays[i], trip); err != nil {
			return nil, err
		}
	}
	return trip, nil
}

func (f *Factory) fillDay(day *models.TripDay, trip *models.Trip) error {
	for i := 0; i < gofakeit.Number(0, 3); i++ {
		startHour := gofakeit.Number(8, 18)
		st := trip.DateForSequence(day.DaySequence).Add(time.Duration(startHour) * time.Hour)
		et := st.Add(time.Duration(gofakeit.Number(1, 3)) * time.Hour)
		lat := gofakeit.Latitude()
		lon := gofakeit.Longitude()
		schedule := models.Schedule{
			TripDayID: day.ID,
			Title:     gofakeit.HipsterSentence(3),
			Memo:      gofakeit.Sentence(8),
			PlaceName: gofakeit.Company(),
			Lat:       &lat,
			Lon:       &lon,
			StartTime: &st,
			EndTime:   &et,
		}
		if err := f.db.Create(&schedule).Error; err != nil {
			return err
		}
	}
	for i := 0; i < gofakeit.Number(0, 2); i++ {
		item := models.ChecklistItem{
			TripDayID: day.ID,
			Content:   gofakeit.ProductName(),
			IsChecked: gofakeit.Bool(),
		}
		if err := f.db.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateReview writes a review for the trip, snapshotting the trip's earliest
// city interval the same way the service does.
func (f *Factory) CreateReview(trip *models.Trip) (*models.Review, error) {
	if len(trip.TripCities) == 0 {
		return nil, fmt.Errorf("trip %d has no cities", trip.ID)
	}
	best := trip.TripCities[0]
	for _, tc := range trip.TripCities[1:] {
		if tc.StartDate.Before(best.StartDate) ||
			(tc.StartDate.Equal(best.StartDate) && tc.CityID < best.CityID) {
			best = tc
		}
	}

	review := &models.Review{
		UserID:  trip.UserID,
		TripID:  trip.ID,
		CityID:  best.CityID,
		Title:   gofakeit.HipsterSentence(4),
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
		Rating:  gofakeit.Number(1, 5),
	}
	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (f *Factory) CreateLike(user *models.User, review *models.Review) error {
	like := models.Like{UserID: user.ID, ReviewID: review.ID}
	err := f.db.Create(&like).Error
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

func (f *Factory) CreateComment(user *models.User, review *models.Review) (*models.Comment, error) {
	comment := &models.Comment{
		ReviewID: review.ID,
		UserID:   user.ID,
		Content:  gofakeit.HipsterSentence(gofakeit.Number(3, 12)),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func pickCities(cities []models.City, n int) []models.City {
	if n > len(cities) {
		n = len(cities)
	}
	picked := make([]models.City, len(cities))
	copy(picked, cities)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
