package server

import (
	"planit/internal/models"
	"planit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateSchedule handles POST /api/days/:dayId/schedules
func (s *Server) CreateSchedule(c *fiber.Ctx) error {
	dayID, err := s.parseID(c, "dayId")
	if err != nil {
		return nil
	}

	var in service.ScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	schedule, err := s.tripService.CreateSchedule(c.Context(), dayID, currentUserID(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(schedule)
}

// GetSchedule handles GET /api/schedules/:id
func (s *Server) GetSchedule(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	schedule, err := s.tripService.GetSchedule(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(schedule)
}

// UpdateSchedule handles PUT /api/schedules/:id
func (s *Server) UpdateSchedule(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.ScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	schedule, err := s.tripService.UpdateSchedule(c.Context(), id, currentUserID(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(schedule)
}

// DeleteSchedule handles DELETE /api/schedules/:id
func (s *Server) DeleteSchedule(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tripService.DeleteSchedule(c.Context(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Schedule deleted"})
}

// CreateChecklistItem handles POST /api/days/:dayId/checklist
func (s *Server) CreateChecklistItem(c *fiber.Ctx) error {
	dayID, err := s.parseID(c, "dayId")
	if err != nil {
		return nil
	}

	var in service.ChecklistInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.tripService.CreateChecklistItem(c.Context(), dayID, currentUserID(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateChecklistItem handles PUT /api/checklist/:id
func (s *Server) UpdateChecklistItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var in service.ChecklistInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.tripService.UpdateChecklistItem(c.Context(), id, currentUserID(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(item)
}

// DeleteChecklistItem handles DELETE /api/checklist/:id
func (s *Server) DeleteChecklistItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tripService.DeleteChecklistItem(c.Context(), id, currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Checklist item deleted"})
}
