package review

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nhom6/oufood-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/restaurants/:id<[0-9]+>/reviews", h.listReviews)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/restaurants/:id<[0-9]+>/reviews", h.createReview)
}

func (h *Handler) listReviews(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	return c.JSON(h.service.ListByRestaurant(id))
}

func (h *Handler) createReview(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	restaurantID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	var body struct {
		Content string `json:"content"`
		Rate    int    `json:"rate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}

	created, err := h.service.Create(Review{
		Content:      body.Content,
		Rate:         body.Rate,
		UserID:       userID,
		RestaurantID: restaurantID,
	})
	if err == ErrInvalidRate {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot create review"})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}
