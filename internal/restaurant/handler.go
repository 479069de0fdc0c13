package restaurant

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/restaurants", h.listRestaurants)
	app.Get("/api/restaurants/:id<[0-9]+>", h.getRestaurant)
	app.Get("/api/restaurants/:id<[0-9]+>/cuisine-types", h.listCuisineTypes)
}

func (h *Handler) listRestaurants(c *fiber.Ctx) error {
	f := Filter{
		Keyword:  c.Query("keyword"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Tag:      c.Query("tag"),
	}
	return c.JSON(h.service.List(f))
}

func (h *Handler) getRestaurant(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	rest, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "restaurant not found"})
	}
	return c.JSON(rest)
}

func (h *Handler) listCuisineTypes(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	return c.JSON(h.service.CuisineTypes(id))
}
