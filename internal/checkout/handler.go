package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nhom6/oufood-backend/internal/cart"
	"github.com/nhom6/oufood-backend/internal/user"
)

// Provider keys used in checkout requests and callback routes.
const (
	ProviderMoMo  = "momo"
	ProviderVNPay = "vnpay"
)

type Handler struct {
	orchestrator *Orchestrator
}

func NewHandler(o *Orchestrator) *Handler {
	return &Handler{orchestrator: o}
}

// RegisterPublicRoutes mounts the callback endpoints. They stay outside the
// JWT middleware: the gateway authenticates itself through the callback
// signature, not through a bearer token.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/checkout/momo/callback", h.momoCallback)
	app.Get("/api/checkout/vnpay/callback", h.vnpayCallback)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/checkout", h.startCheckout)
}

type startCheckoutRequest struct {
	Provider string        `json:"provider"`
	Receiver cart.Receiver `json:"receiver"`
}

func (h *Handler) startCheckout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	var body startCheckoutRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	if body.Provider == "" {
		body.Provider = ProviderMoMo
	}

	redirect, err := h.orchestrator.StartCheckout(c.Context(), userID, body.Provider, c.IP(), body.Receiver)
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(validation)
		}
		var build *GatewayBuildError
		if errors.As(err, &build) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "payment gateway unavailable, please retry"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot start checkout"})
	}
	return c.JSON(redirect)
}

// momoCallback handles the signed JSON POST (IPN). The provider retries until
// it gets a 2xx, so every resolved outcome answers 204 and only transport
// level problems surface as errors.
func (h *Handler) momoCallback(c *fiber.Ctx) error {
	params, err := flattenJSONBody(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	outcome, err := h.orchestrator.HandleCallback(c.Context(), ProviderMoMo, params)
	return callbackResponse(c, outcome, err)
}

// vnpayCallback handles the query-string return leg.
func (h *Handler) vnpayCallback(c *fiber.Ctx) error {
	outcome, err := h.orchestrator.HandleCallback(c.Context(), ProviderVNPay, c.Queries())
	return callbackResponse(c, outcome, err)
}

func callbackResponse(c *fiber.Ctx, outcome Outcome, err error) error {
	var conflict *PostPaymentStockConflict
	if err != nil && !errors.As(err, &conflict) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "callback processing failed"})
	}
	if outcome.State == StateUntrusted {
		// no order detail is leaked on a signature failure
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid signature"})
	}
	return c.JSON(outcome)
}

// flattenJSONBody turns the provider's JSON callback into the flat string map
// the signer verifies. Numbers keep their wire form so the recomputed
// signature matches what the provider signed.
func flattenJSONBody(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
			out[k] = ""
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			out[k] = string(b)
		}
	}
	return out, nil
}
