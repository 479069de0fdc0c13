package cuisine

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes read-only catalog endpoints. Catalog administration is out
// of scope for this service; cuisines are managed directly in the database.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/cuisines", h.listCuisines)
	app.Get("/api/cuisines/:id<[0-9]+>", h.getCuisine)
}

func (h *Handler) listCuisines(c *fiber.Ctx) error {
	if v := c.Query("restaurant_id"); v != "" {
		restaurantID, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid restaurant_id"})
		}
		return c.JSON(h.service.ListByRestaurant(restaurantID))
	}
	return c.JSON(h.service.List())
}

func (h *Handler) getCuisine(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	cu, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cuisine not found"})
	}
	return c.JSON(cu)
}
