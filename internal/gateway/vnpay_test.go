package gateway

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nhom6/oufood-backend/internal/config"
	"github.com/shopspring/decimal"
)

func vnpayTestConfig() config.VNPayConfig {
	return config.VNPayConfig{
		BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TMNCode:    "OUFOOD01",
		HashSecret: "hash-secret",
		ReturnURL:  "https://oufood.example/payment/return",
	}
}

func TestVNPayRedirectRoundTrip(t *testing.T) {
	signer := NewVNPaySigner(vnpayTestConfig())

	redirect, err := signer.BuildRedirectRequest(context.Background(), PaymentRequest{
		OrderRef:  "ref-42",
		Amount:    10500000,
		OrderInfo: "Thanh toan don hang",
		ClientIP:  "203.0.113.7",
		CreatedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		BankCode:  "NCB",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	u, err := url.Parse(redirect)
	if err != nil {
		t.Fatalf("redirect is not a URL: %v", err)
	}
	q := u.Query()
	if q.Get("vnp_Amount") != "10500000" || q.Get("vnp_TxnRef") != "ref-42" {
		t.Fatalf("unexpected query: %s", u.RawQuery)
	}
	if q.Get("vnp_CreateDate") != "20260115103000" {
		t.Fatalf("unexpected create date %q", q.Get("vnp_CreateDate"))
	}
	if q.Get("vnp_SecureHash") == "" {
		t.Fatal("redirect missing signature")
	}

	// the signed query keys must appear in lexicographic order
	raw := u.RawQuery
	var prev string
	for _, pair := range strings.Split(raw[:strings.Index(raw, "&vnp_SecureHash=")], "&") {
		key := pair[:strings.Index(pair, "=")]
		if prev != "" && key < prev {
			t.Fatalf("canonical key order violated: %q after %q", key, prev)
		}
		prev = key
	}

	// a callback echoing the same signed fields verifies
	params := map[string]string{}
	for k, vs := range q {
		params[k] = vs[0]
	}
	// the gateway would replace request-only fields; keep the signed set and
	// simulate its response fields on top of a fresh signature
	delete(params, "vnp_SecureHash")
	callbackParams := map[string]string{
		"vnp_TmnCode":       params["vnp_TmnCode"],
		"vnp_Amount":        params["vnp_Amount"],
		"vnp_TxnRef":        params["vnp_TxnRef"],
		"vnp_OrderInfo":     params["vnp_OrderInfo"],
		"vnp_ResponseCode":  "00",
		"vnp_TransactionNo": "14226112",
		"vnp_BankCode":      "NCB",
		"vnp_PayDate":       "20260115103210",
	}
	callbackParams["vnp_SecureHash"] = signer.sign(canonicalQuery(callbackParams))

	cb, ok := signer.VerifyCallback(callbackParams)
	if !ok {
		t.Fatal("expected callback to verify")
	}
	if cb.OrderRef != "ref-42" || cb.Amount != 10500000 || !cb.Success {
		t.Fatalf("unexpected callback: %+v", cb)
	}
}

func TestVNPayVerifyCallback_MutationFlipsVerification(t *testing.T) {
	signer := NewVNPaySigner(vnpayTestConfig())

	base := map[string]string{
		"vnp_TmnCode":      "OUFOOD01",
		"vnp_Amount":       "4500000",
		"vnp_TxnRef":       "ref-7",
		"vnp_OrderInfo":    "don hang",
		"vnp_ResponseCode": "00",
	}
	base["vnp_SecureHash"] = signer.sign(canonicalQuery(copyWithout(base, "vnp_SecureHash")))

	if _, ok := signer.VerifyCallback(base); !ok {
		t.Fatal("expected baseline to verify")
	}

	for field := range base {
		if field == "vnp_SecureHash" {
			continue
		}
		mutated := map[string]string{}
		for k, v := range base {
			mutated[k] = v
		}
		mutated[field] = mutated[field] + "x"
		if _, ok := signer.VerifyCallback(mutated); ok {
			t.Fatalf("mutated field %q still verified", field)
		}
	}

	// a success code cannot rescue a bad signature
	forged := map[string]string{}
	for k, v := range base {
		forged[k] = v
	}
	forged["vnp_SecureHash"] = strings.Repeat("0", 64)
	if _, ok := signer.VerifyCallback(forged); ok {
		t.Fatal("forged signature verified")
	}
}

func TestVNPayVerifyCallback_FailureCode(t *testing.T) {
	signer := NewVNPaySigner(vnpayTestConfig())

	params := map[string]string{
		"vnp_TmnCode":      "OUFOOD01",
		"vnp_Amount":       "4500000",
		"vnp_TxnRef":       "ref-7",
		"vnp_ResponseCode": "24", // customer cancelled
	}
	params["vnp_SecureHash"] = signer.sign(canonicalQuery(copyWithout(params, "vnp_SecureHash")))

	cb, ok := signer.VerifyCallback(params)
	if !ok {
		t.Fatal("expected signature to verify")
	}
	if cb.Success {
		t.Fatal("cancellation must not read as success")
	}
}

func TestMinorUnitsRoundTrip(t *testing.T) {
	total := decimal.NewFromInt(105000)
	minor, err := MinorUnits(total)
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if minor != 10500000 {
		t.Fatalf("expected 10500000 minor units, got %d", minor)
	}
	if !FromMinorUnits(minor).Equal(total) {
		t.Fatalf("round trip lost precision: %s", FromMinorUnits(minor))
	}

	// fractional minor units are rejected, not rounded
	if _, err := MinorUnits(decimal.RequireFromString("0.005")); err == nil {
		t.Fatal("expected error for sub-minor-unit amount")
	}

	cents := decimal.RequireFromString("19.99")
	minor, err = MinorUnits(cents)
	if err != nil || minor != 1999 {
		t.Fatalf("expected 1999, got %d (%v)", minor, err)
	}
}

func copyWithout(m map[string]string, key string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if k == key {
			continue
		}
		out[k] = v
	}
	return out
}
