package order

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nhom6/oufood-backend/internal/user"
)

// RestaurantResolver resolves which restaurant a manager account runs, so
// fulfillment endpoints only ever show a manager their own orders.
type RestaurantResolver interface {
	RestaurantIDByManager(userID int) (int, error)
}

// Handler exposes the fulfillment surface: managers list the paid orders of
// their restaurant and walk each one forward through the kitchen statuses.
// Orders are only ever created by the payment callback path, never here.
type Handler struct {
	service     *Service
	restaurants RestaurantResolver
}

func NewHandler(s *Service, restaurants RestaurantResolver) *Handler {
	return &Handler{service: s, restaurants: restaurants}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/orders", h.listOrders)
	app.Get("/api/orders/:id<[0-9]+>", h.getOrder)
	app.Patch("/api/orders/:id<[0-9]+>/status", h.updateStatus)
}

// managerRestaurant authorizes the request and resolves the caller's
// restaurant. When it reports !ok the response has already been written.
func (h *Handler) managerRestaurant(c *fiber.Ctx) (int, bool) {
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		return 0, false
	}
	if role != user.RoleManager && role != user.RoleAdmin {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "manager role required"})
		return 0, false
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		return 0, false
	}
	restaurantID, err := h.restaurants.RestaurantIDByManager(userID)
	if err != nil {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "no restaurant for this account"})
		return 0, false
	}
	return restaurantID, true
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	restaurantID, ok := h.managerRestaurant(c)
	if !ok {
		return nil
	}
	orders, err := h.service.ListByRestaurant(c.Context(), restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot list orders"})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	if _, ok := h.managerRestaurant(c); !ok {
		return nil
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	o, details, payment, err := h.service.GetDetail(c.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot load order"})
	}
	return c.JSON(fiber.Map{
		"order":   o,
		"details": details,
		"payment": payment,
	})
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if _, ok := h.managerRestaurant(c); !ok {
		return nil
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}

	err = h.service.Advance(c.Context(), id, strings.ToUpper(strings.TrimSpace(body.Status)))
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": "status updated"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	case errors.Is(err, ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "status can only move forward"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot update status"})
	}
}
