package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nhom6/oufood-backend/internal/user"
	"github.com/shopspring/decimal"
)

// Handler exposes the cart REST surface used by the storefront.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/carts", h.getCart)
	app.Post("/api/carts", h.addToCart)
	app.Put("/api/carts/:id<[0-9]+>", h.updateItem)
	app.Delete("/api/carts/:id<[0-9]+>", h.removeItem)
	app.Delete("/api/carts", h.clearCart)
}

type addRequest struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Count int             `json:"count"`
	Qty   int             `json:"quantity"`
	Note  string          `json:"note"`
}

type updateRequest struct {
	Quantity *int    `json:"quantity,omitempty"`
	Note     *string `json:"note,omitempty"`
}

type cartResponse struct {
	CorrelationID string          `json:"correlationId,omitempty"`
	Items         []Item          `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

func toResponse(snap Snapshot) cartResponse {
	items := make([]Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, it)
	}
	qty, amount := snap.Totals()
	return cartResponse{CorrelationID: snap.CorrelationID, Items: items, TotalQuantity: qty, TotalAmount: amount}
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid cuisine id"})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.AddItem(c.UserContext(), userID, Item{
		CuisineID: payload.ID,
		Name:      payload.Name,
		Price:     payload.Price,
		Image:     payload.Image,
		Quantity:  payload.Qty,
		Note:      payload.Note,
		Stock:     payload.Count,
	})
	if err != nil {
		return writeCartError(c, err)
	}
	return c.JSON(toResponse(snap))
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	cuisineID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var snap Snapshot
	if payload.Quantity != nil {
		snap, err = h.service.SetQuantity(c.UserContext(), userID, cuisineID, *payload.Quantity)
		if err != nil {
			return writeCartError(c, err)
		}
	}
	if payload.Note != nil {
		snap, err = h.service.SetNote(c.UserContext(), userID, cuisineID, *payload.Note)
		if err != nil {
			return writeCartError(c, err)
		}
	}
	if payload.Quantity == nil && payload.Note == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "nothing to update"})
	}
	return c.JSON(toResponse(snap))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	cuisineID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.RemoveItem(c.UserContext(), userID, cuisineID)
	if err != nil {
		return writeCartError(c, err)
	}
	return c.JSON(toResponse(snap))
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	snap, err := h.service.Snapshot(c.UserContext(), userID)
	if err == ErrNoCart {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no cart"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(toResponse(snap))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if err := h.service.Clear(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func writeCartError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNoCart:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no cart"})
	case ErrItemNotInCart:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "item not in cart"})
	case ErrInvalidQuantity, ErrInvalidReceiver:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
