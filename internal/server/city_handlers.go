package server

import (
	"planit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCities handles GET /api/cities; reference data, served cache-first.
func (s *Server) GetCities(c *fiber.Ctx) error {
	cities, err := s.cityRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cities)
}

// GetCity handles GET /api/cities/:id
func (s *Server) GetCity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	city, err := s.cityRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(city)
}

// SearchCities handles GET /api/cities/search?q=
func (s *Server) SearchCities(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter q is required"))
	}

	cities, err := s.cityRepo.Search(c.Context(), query, c.QueryInt("limit", 20))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(cities)
}
