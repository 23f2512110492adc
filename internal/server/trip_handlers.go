package server

import (
	"planit/internal/models"
	"planit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTrip handles POST /api/trips
func (s *Server) CreateTrip(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var in service.TripInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	trip, err := s.tripService.CreateTrip(c.Context(), userID, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// GetTrips handles GET /api/trips
func (s *Server) GetTrips(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 20)

	trips, err := s.tripService.ListTrips(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trips)
}

// GetTrip handles GET /api/trips/:id
func (s *Server) GetTrip(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	trip, err := s.tripService.GetTrip(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trip)
}

// UpdateTrip handles PUT /api/trips/:id
func (s *Server) UpdateTrip(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.TripInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	trip, err := s.tripService.UpdateTrip(c.Context(), id, currentUserID(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trip)
}

// DeleteTrip handles DELETE /api/trips/:id
func (s *Server) DeleteTrip(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tripService.DeleteTrip(c.Context(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Trip deleted"})
}

// GetTripDay handles GET /api/days/:dayId
func (s *Server) GetTripDay(c *fiber.Ctx) error {
	dayID, err := s.parseID(c, "dayId")
	if err != nil {
		return nil
	}

	day, err := s.tripService.GetTripDay(c.Context(), dayID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(day)
}
