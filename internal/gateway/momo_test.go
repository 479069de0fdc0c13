package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhom6/oufood-backend/internal/config"
)

func momoTestConfig(endpoint string) config.MoMoConfig {
	return config.MoMoConfig{
		Endpoint:    endpoint,
		PartnerCode: "MOMO",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		RedirectURL: "https://oufood.example/payment/return",
		IPNURL:      "https://oufood.example/api/payments/momo/ipn",
	}
}

func momoSign(secret, raw string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

func validIPN(cfg config.MoMoConfig, ref string, amount string) map[string]string {
	params := map[string]string{
		"partnerCode":  cfg.PartnerCode,
		"orderId":      ref,
		"requestId":    "req-1",
		"amount":       amount,
		"orderInfo":    "don hang OUFood",
		"orderType":    "momo_wallet",
		"transId":      "2718281828",
		"resultCode":   "0",
		"message":      "Successful.",
		"payType":      "qr",
		"responseTime": "1700000000000",
		"extraData":    "",
	}
	raw := "accessKey=" + cfg.AccessKey
	for _, f := range momoIPNFields {
		raw += "&" + f + "=" + params[f]
	}
	params["signature"] = momoSign(cfg.SecretKey, raw)
	return params
}

func TestMoMoBuildRedirectRequest(t *testing.T) {
	var received momoCreateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"payUrl": "https://pay.momo.vn/redirect/abc", "resultCode": 0})
	}))
	defer srv.Close()

	cfg := momoTestConfig(srv.URL)
	signer := NewMoMoSignerWithClient(cfg, srv.Client())

	url, err := signer.BuildRedirectRequest(context.Background(), PaymentRequest{
		OrderRef:  "ref-123",
		Amount:    10500000,
		OrderInfo: "don hang OUFood",
		ClientIP:  "203.0.113.7",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if url != "https://pay.momo.vn/redirect/abc" {
		t.Fatalf("unexpected redirect url %q", url)
	}

	if received.Amount != "10500000" || received.OrderID != "ref-123" {
		t.Fatalf("unexpected outbound request: %+v", received)
	}
	// the outbound signature must cover the canonical field order exactly
	raw := "accessKey=" + cfg.AccessKey +
		"&amount=" + received.Amount +
		"&extraData=" +
		"&ipnUrl=" + cfg.IPNURL +
		"&orderId=" + received.OrderID +
		"&orderInfo=" + received.OrderInfo +
		"&partnerCode=" + cfg.PartnerCode +
		"&redirectUrl=" + cfg.RedirectURL +
		"&requestId=" + received.RequestID +
		"&requestType=" + received.RequestType
	if received.Signature != momoSign(cfg.SecretKey, raw) {
		t.Fatal("outbound signature does not match canonical string")
	}
}

func TestMoMoBuildRedirectRequest_NotConfigured(t *testing.T) {
	signer := NewMoMoSigner(config.MoMoConfig{})
	if _, err := signer.BuildRedirectRequest(context.Background(), PaymentRequest{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestMoMoVerifyCallback(t *testing.T) {
	cfg := momoTestConfig("")
	signer := NewMoMoSigner(cfg)

	cb, ok := signer.VerifyCallback(validIPN(cfg, "ref-9", "10500000"))
	if !ok {
		t.Fatal("expected valid signature to verify")
	}
	if cb.OrderRef != "ref-9" || cb.Amount != 10500000 || !cb.Success {
		t.Fatalf("unexpected callback: %+v", cb)
	}
}

func TestMoMoVerifyCallback_AnyMutatedFieldFails(t *testing.T) {
	cfg := momoTestConfig("")
	signer := NewMoMoSigner(cfg)

	for _, field := range momoIPNFields {
		params := validIPN(cfg, "ref-9", "10500000")
		params[field] = params[field] + "x"
		if _, ok := signer.VerifyCallback(params); ok {
			t.Fatalf("mutated field %q still verified", field)
		}
	}

	// a forged "success" with no valid signature never verifies
	params := validIPN(cfg, "ref-9", "10500000")
	params["signature"] = "deadbeef"
	if _, ok := signer.VerifyCallback(params); ok {
		t.Fatal("forged signature verified")
	}
	delete(params, "signature")
	if _, ok := signer.VerifyCallback(params); ok {
		t.Fatal("missing signature verified")
	}
}

func TestMoMoVerifyCallback_FailureCode(t *testing.T) {
	cfg := momoTestConfig("")
	signer := NewMoMoSigner(cfg)

	params := map[string]string{
		"partnerCode": cfg.PartnerCode, "orderId": "ref-2", "requestId": "r",
		"amount": "500000", "orderInfo": "x", "orderType": "momo_wallet",
		"transId": "1", "resultCode": "1006", "message": "User cancelled",
		"payType": "qr", "responseTime": "1700000000000", "extraData": "",
	}
	raw := "accessKey=" + cfg.AccessKey
	for _, f := range momoIPNFields {
		raw += "&" + f + "=" + params[f]
	}
	params["signature"] = momoSign(cfg.SecretKey, raw)

	cb, ok := signer.VerifyCallback(params)
	if !ok {
		t.Fatal("expected signature to verify")
	}
	if cb.Success {
		t.Fatal("cancellation must not read as success")
	}
	if cb.ResultCode != "1006" {
		t.Fatalf("unexpected result code %q", cb.ResultCode)
	}
}
