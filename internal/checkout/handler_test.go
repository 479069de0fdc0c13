package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/nhom6/oufood-backend/internal/cart"
)

func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		v := c.Get("X-User-ID")
		if v == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func TestCheckoutRoutes_Flow(t *testing.T) {
	fx := newFixture()
	fx.fillCart(t, 42)
	app := makeApp(NewHandler(fx.orchestrator))

	// callbacks are public; checkout itself needs a shopper
	req := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	body := `{"provider":"momo","receiver":{"name":"Nguyễn Văn A","phone":"0909123456","address":"1 Đường Láng"}}`
	req = httptest.NewRequest("POST", "/api/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 200 for checkout, got %d: %s", res.StatusCode, string(b))
	}

	var redirect Redirect
	if err := json.NewDecoder(res.Body).Decode(&redirect); err != nil {
		t.Fatalf("decode redirect: %v", err)
	}
	if redirect.URL == "" || redirect.PaymentRef == "" || redirect.Amount != 10500000 {
		t.Fatalf("unexpected redirect: %+v", redirect)
	}

	// the provider posts the signed result back as JSON
	cbBody, _ := json.Marshal(fx.signer.callback(redirect.PaymentRef, redirect.Amount, "0"))
	req = httptest.NewRequest("POST", "/api/checkout/momo/callback", bytes.NewReader(cbBody))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for callback, got %d", res.StatusCode)
	}

	var outcome Outcome
	if err := json.NewDecoder(res.Body).Decode(&outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if outcome.State != StateConfirmed || outcome.OrderID == 0 {
		t.Fatalf("expected confirmation, got %+v", outcome)
	}

	if _, err := fx.carts.Snapshot(context.Background(), 42); err != cart.ErrNoCart {
		t.Fatalf("expected cart cleared, got %v", err)
	}
}

func TestCheckoutRoutes_InvalidReceiver(t *testing.T) {
	fx := newFixture()
	fx.fillCart(t, 42)
	app := makeApp(NewHandler(fx.orchestrator))

	req := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(`{"receiver":{"name":"","phone":"","address":""}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing receiver, got %d", res.StatusCode)
	}
}

func TestCheckoutRoutes_ForgedCallback(t *testing.T) {
	fx := newFixture()
	app := makeApp(NewHandler(fx.orchestrator))

	params := fx.signer.callback("some-ref", 1000, "0")
	params["signature"] = "forged"
	cbBody, _ := json.Marshal(params)

	req := httptest.NewRequest("POST", "/api/checkout/momo/callback", bytes.NewReader(cbBody))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for forged callback, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if strings.Contains(string(b), "some-ref") {
		t.Fatalf("signature failure response must not leak order detail: %s", string(b))
	}
}
