package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/nhom6/oufood-backend/internal/config"
)

// VNPaySigner implements the GET-redirect query-string scheme: all vnp_
// fields are sorted, url-encoded, signed, and the signature travels as one
// more query parameter. No network call is needed to build the redirect.
type VNPaySigner struct {
	cfg config.VNPayConfig
}

func NewVNPaySigner(cfg config.VNPayConfig) *VNPaySigner {
	return &VNPaySigner{cfg: cfg}
}

func (s *VNPaySigner) BuildRedirectRequest(_ context.Context, req PaymentRequest) (string, error) {
	if s.cfg.TMNCode == "" || s.cfg.HashSecret == "" {
		return "", ErrNotConfigured
	}

	locale := req.Locale
	if locale == "" {
		locale = "vn"
	}
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    s.cfg.TMNCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount, 10),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.OrderRef,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     locale,
		"vnp_IpAddr":     req.ClientIP,
		"vnp_CreateDate": req.CreatedAt.Format("20060102150405"),
		"vnp_ReturnUrl":  s.cfg.ReturnURL,
	}
	if req.BankCode != "" {
		params["vnp_BankCode"] = req.BankCode
	}

	canonical := canonicalQuery(params)
	return s.cfg.BaseURL + "?" + canonical + "&vnp_SecureHash=" + s.sign(canonical), nil
}

func (s *VNPaySigner) VerifyCallback(params map[string]string) (Callback, bool) {
	presented := params["vnp_SecureHash"]
	if presented == "" {
		return Callback{}, false
	}

	signed := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		signed[k] = v
	}

	expected := s.sign(canonicalQuery(signed))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(presented))) {
		return Callback{}, false
	}

	amount, err := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	if err != nil {
		return Callback{}, false
	}
	code := params["vnp_ResponseCode"]
	return Callback{
		OrderRef:   params["vnp_TxnRef"],
		Amount:     amount,
		ResultCode: code,
		Success:    code == "00",
	}, true
}

// canonicalQuery renders the fields in lexicographic key order with
// url-encoded values, the exact form the provider signs.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

func (s *VNPaySigner) sign(canonical string) string {
	h := hmac.New(sha256.New, []byte(s.cfg.HashSecret))
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}
