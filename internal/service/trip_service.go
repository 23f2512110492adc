// Package service holds the application's business logic, between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"time"

	"planit/internal/middleware"
	"planit/internal/models"
	"planit/internal/repository"
)

// TripService implements trip planning: the trip aggregate, its per-day
// schedule entries and checklist items.
type TripService struct {
	tripRepo      repository.TripRepository
	cityRepo      repository.CityRepository
	scheduleRepo  repository.ScheduleRepository
	checklistRepo repository.ChecklistRepository
}

// NewTripService returns a new TripService.
func NewTripService(
	tripRepo repository.TripRepository,
	cityRepo repository.CityRepository,
	scheduleRepo repository.ScheduleRepository,
	checklistRepo repository.ChecklistRepository,
) *TripService {
	return &TripService{
		tripRepo:      tripRepo,
		cityRepo:      cityRepo,
		scheduleRepo:  scheduleRepo,
		checklistRepo: checklistRepo,
	}
}

// TripCityInput is one city interval of a trip create or update request.
type TripCityInput struct {
	CityID    uint      `json:"city_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TripInput is the body of a trip create or update request. Updates always
// carry the full intended state of the trip and its city intervals.
type TripInput struct {
	Title     string          `json:"title"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Cities    []TripCityInput `json:"cities"`
}

const maxTripDurationDays = 365

func (s *TripService) validateTripInput(ctx context.Context, in TripInput) error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if in.EndDate.Before(in.StartDate) {
		return models.NewValidationError("End date must not be before start date")
	}
	if models.DurationDays(in.StartDate, in.EndDate) > maxTripDurationDays {
		return models.NewValidationError("Trip cannot be longer than a year")
	}

	cityIDs := make([]uint, 0, len(in.Cities))
	for _, tc := range in.Cities {
		if tc.EndDate.Before(tc.StartDate) {
			return models.NewValidationError("City interval end must not be before its start")
		}
		if tc.StartDate.Before(in.StartDate) || tc.EndDate.After(in.EndDate) {
			return models.NewValidationError("City interval must lie within the trip dates")
		}
		cityIDs = append(cityIDs, tc.CityID)
	}

	if len(cityIDs) > 0 {
		unique := make(map[uint]struct{}, len(cityIDs))
		for _, id := range cityIDs {
			unique[id] = struct{}{}
		}
		distinct := make([]uint, 0, len(unique))
		for id := range unique {
			distinct = append(distinct, id)
		}
		cities, err := s.cityRepo.GetByIDs(ctx, distinct)
		if err != nil {
			return err
		}
		if len(cities) != len(unique) {
			return models.NewValidationError("Unknown city in trip cities")
		}
	}
	return nil
}

// CreateTrip creates the trip together with one TripDay per calendar day,
// sequences 1 through the trip's duration.
func (s *TripService) CreateTrip(ctx context.Context, userID uint, in TripInput) (*models.Trip, error) {
	if err := s.validateTripInput(ctx, in); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Title:     in.Title,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		UserID:    userID,
	}
	for _, tc := range in.Cities {
		trip.TripCities = append(trip.TripCities, models.TripCity{
			CityID:    tc.CityID,
			StartDate: tc.StartDate,
			EndDate:   tc.EndDate,
		})
	}
	for seq := 1; seq <= models.DurationDays(in.StartDate, in.EndDate); seq++ {
		trip.TripDays = append(trip.TripDays, models.TripDay{DaySequence: seq})
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}
	return s.tripRepo.GetWithRelations(ctx, trip.ID)
}

// GetTrip loads a trip with all its relations, enforcing ownership.
func (s *TripService) GetTrip(ctx context.Context, tripID, userID uint) (*models.Trip, error) {
	trip, err := s.tripRepo.GetWithRelations(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, models.NewForbiddenError("You do not own this trip")
	}
	return trip, nil
}

func (s *TripService) ListTrips(ctx context.Context, userID uint, limit, offset int) ([]models.Trip, error) {
	return s.tripRepo.ListByUser(ctx, userID, limit, offset)
}

// UpdateTrip applies a full-state trip update and reconciles the TripDay set
// against the trip's new duration:
//   - equal duration: every day survives untouched, even when the start date
//     shifted (a day's calendar date is derived, never stored);
//   - shorter: days whose sequence exceeds the new duration are removed with
//     their schedules and checklist items;
//   - longer: fresh empty days are appended after the old last sequence.
//
// City intervals are replaced wholesale with the requested set.
func (s *TripService) UpdateTrip(ctx context.Context, tripID, userID uint, in TripInput) (*models.Trip, error) {
	trip, err := s.tripRepo.GetWithRelations(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, models.NewForbiddenError("You do not own this trip")
	}
	if err := s.validateTripInput(ctx, in); err != nil {
		return nil, err
	}

	oldDuration := trip.DurationDays()
	newDuration := models.DurationDays(in.StartDate, in.EndDate)

	var removedDayIDs []uint
	for _, day := range trip.TripDays {
		if day.DaySequence > newDuration {
			removedDayIDs = append(removedDayIDs, day.ID)
		}
	}
	var appendDays []models.TripDay
	for seq := oldDuration + 1; seq <= newDuration; seq++ {
		appendDays = append(appendDays, models.TripDay{TripID: trip.ID, DaySequence: seq})
	}

	change := "unchanged"
	switch {
	case newDuration < oldDuration:
		change = "trimmed"
	case newDuration > oldDuration:
		change = "extended"
	}
	middleware.TripReconciliations.WithLabelValues(change).Inc()

	trip.Title = in.Title
	trip.StartDate = in.StartDate
	trip.EndDate = in.EndDate

	cities := make([]models.TripCity, 0, len(in.Cities))
	for _, tc := range in.Cities {
		cities = append(cities, models.TripCity{
			TripID:    trip.ID,
			CityID:    tc.CityID,
			StartDate: tc.StartDate,
			EndDate:   tc.EndDate,
		})
	}

	if err := s.tripRepo.UpdateAggregate(ctx, trip, cities, removedDayIDs, appendDays); err != nil {
		return nil, err
	}
	return s.tripRepo.GetWithRelations(ctx, trip.ID)
}

func (s *TripService) DeleteTrip(ctx context.Context, tripID, userID uint) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.UserID != userID {
		return models.NewForbiddenError("You do not own this trip")
	}
	return s.tripRepo.Delete(ctx, tripID)
}

// TripDayDetail is a day read model: the stored day plus its derived
// calendar date and its children.
type TripDayDetail struct {
	ID             uint                   `json:"id"`
	TripID         uint                   `json:"trip_id"`
	DaySequence    int                    `json:"day_sequence"`
	Date           time.Time              `json:"date"`
	Schedules      []models.Schedule      `json:"schedules"`
	ChecklistItems []models.ChecklistItem `json:"checklist_items"`
}

// GetTripDay returns one day with its schedules and checklist items. The
// day's date is computed from the owning trip's current start date.
func (s *TripService) GetTripDay(ctx context.Context, dayID, userID uint) (*TripDayDetail, error) {
	day, trip, err := s.ownedDay(ctx, dayID, userID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.scheduleRepo.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.checklistRepo.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	return &TripDayDetail{
		ID:             day.ID,
		TripID:         day.TripID,
		DaySequence:    day.DaySequence,
		Date:           trip.DateForSequence(day.DaySequence),
		Schedules:      schedules,
		ChecklistItems: items,
	}, nil
}

func (s *TripService) ownedDay(ctx context.Context, dayID, userID uint) (*models.TripDay, *models.Trip, error) {
	day, trip, err := s.tripRepo.GetDayWithTrip(ctx, dayID)
	if err != nil {
		return nil, nil, err
	}
	if trip.UserID != userID {
		return nil, nil, models.NewForbiddenError("You do not own this trip")
	}
	return day, trip, nil
}

// ScheduleInput is the body of a schedule create or update request.
type ScheduleInput struct {
	Title     string     `json:"title"`
	Memo      string     `json:"memo"`
	PlaceName string     `json:"place_name"`
	Lat       *float64   `json:"lat"`
	Lon       *float64   `json:"lon"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

func (in ScheduleInput) validate() error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if (in.Lat == nil) != (in.Lon == nil) {
		return models.NewValidationError("Latitude and longitude must be provided together")
	}
	if in.StartTime != nil && in.EndTime != nil && in.EndTime.Before(*in.StartTime) {
		return models.NewValidationError("End time must not be before start time")
	}
	return nil
}

func (s *TripService) CreateSchedule(ctx context.Context, dayID, userID uint, in ScheduleInput) (*models.Schedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, _, err := s.ownedDay(ctx, dayID, userID); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		TripDayID: dayID,
		Title:     in.Title,
		Memo:      in.Memo,
		PlaceName: in.PlaceName,
		Lat:       in.Lat,
		Lon:       in.Lon,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *TripService) UpdateSchedule(ctx context.Context, scheduleID, userID uint, in ScheduleInput) (*models.Schedule, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ownedDay(ctx, schedule.TripDayID, userID); err != nil {
		return nil, err
	}

	schedule.Title = in.Title
	schedule.Memo = in.Memo
	schedule.PlaceName = in.PlaceName
	schedule.Lat = in.Lat
	schedule.Lon = in.Lon
	schedule.StartTime = in.StartTime
	schedule.EndTime = in.EndTime
	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *TripService) GetSchedule(ctx context.Context, scheduleID, userID uint) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ownedDay(ctx, schedule.TripDayID, userID); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *TripService) DeleteSchedule(ctx context.Context, scheduleID, userID uint) error {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if _, _, err := s.ownedDay(ctx, schedule.TripDayID, userID); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(ctx, scheduleID)
}

// ChecklistInput is the body of a checklist item create or update request.
type ChecklistInput struct {
	Content   string `json:"content"`
	IsChecked bool   `json:"is_checked"`
}

func (s *TripService) CreateChecklistItem(ctx context.Context, dayID, userID uint, in ChecklistInput) (*models.ChecklistItem, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if _, _, err := s.ownedDay(ctx, dayID, userID); err != nil {
		return nil, err
	}

	item := &models.ChecklistItem{
		TripDayID: dayID,
		Content:   in.Content,
		IsChecked: in.IsChecked,
	}
	if err := s.checklistRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TripService) UpdateChecklistItem(ctx context.Context, itemID, userID uint, in ChecklistInput) (*models.ChecklistItem, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	item, err := s.checklistRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ownedDay(ctx, item.TripDayID, userID); err != nil {
		return nil, err
	}

	item.Content = in.Content
	item.IsChecked = in.IsChecked
	if err := s.checklistRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *TripService) DeleteChecklistItem(ctx context.Context, itemID, userID uint) error {
	item, err := s.checklistRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if _, _, err := s.ownedDay(ctx, item.TripDayID, userID); err != nil {
		return err
	}
	return s.checklistRepo.Delete(ctx, itemID)
}
