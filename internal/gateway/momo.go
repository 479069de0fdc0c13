package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nhom6/oufood-backend/internal/config"
)

// MoMoSigner implements the signed JSON POST scheme: the payment request is
// POSTed to the provider, which answers with the redirect URL.
type MoMoSigner struct {
	cfg    config.MoMoConfig
	client *http.Client
}

func NewMoMoSigner(cfg config.MoMoConfig) *MoMoSigner {
	return &MoMoSigner{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

// NewMoMoSignerWithClient lets tests point the signer at a fake endpoint.
func NewMoMoSignerWithClient(cfg config.MoMoConfig, client *http.Client) *MoMoSigner {
	return &MoMoSigner{cfg: cfg, client: client}
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName"`
	StoreID     string `json:"storeId"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	AutoCapture bool   `json:"autoCapture"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

func (s *MoMoSigner) BuildRedirectRequest(ctx context.Context, req PaymentRequest) (string, error) {
	if s.cfg.AccessKey == "" || s.cfg.SecretKey == "" {
		return "", ErrNotConfigured
	}

	amount := strconv.FormatInt(req.Amount, 10)
	requestID := uuid.NewString()
	requestType := "payWithMethod"
	lang := req.Locale
	if lang == "" {
		lang = "vi"
	}

	// field order in the canonical string is fixed by the provider
	raw := "accessKey=" + s.cfg.AccessKey +
		"&amount=" + amount +
		"&extraData=" +
		"&ipnUrl=" + s.cfg.IPNURL +
		"&orderId=" + req.OrderRef +
		"&orderInfo=" + req.OrderInfo +
		"&partnerCode=" + s.cfg.PartnerCode +
		"&redirectUrl=" + s.cfg.RedirectURL +
		"&requestId=" + requestID +
		"&requestType=" + requestType

	body, err := json.Marshal(momoCreateRequest{
		PartnerCode: s.cfg.PartnerCode,
		PartnerName: "MoMo Payment",
		StoreID:     "OUFood",
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     req.OrderRef,
		OrderInfo:   req.OrderInfo,
		RedirectURL: s.cfg.RedirectURL,
		IPNURL:      s.cfg.IPNURL,
		RequestType: requestType,
		ExtraData:   "",
		Lang:        lang,
		AutoCapture: true,
		Signature:   s.sign(raw),
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo create request failed: %w", err)
	}
	defer res.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("momo create response unreadable: %w", err)
	}
	if out.PayURL == "" {
		return "", fmt.Errorf("momo refused the request: code %d %s", out.ResultCode, out.Message)
	}
	return out.PayURL, nil
}

// momoIPNFields is the provider-fixed order of the fields signed in an IPN
// callback. The signature field itself is excluded.
var momoIPNFields = []string{
	"amount", "extraData", "message", "orderId", "orderInfo", "orderType",
	"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
}

func (s *MoMoSigner) VerifyCallback(params map[string]string) (Callback, bool) {
	presented := params["signature"]
	if presented == "" {
		return Callback{}, false
	}

	raw := "accessKey=" + s.cfg.AccessKey
	for _, f := range momoIPNFields {
		raw += "&" + f + "=" + params[f]
	}
	if !hmac.Equal([]byte(s.sign(raw)), []byte(presented)) {
		return Callback{}, false
	}

	amount, err := strconv.ParseInt(params["amount"], 10, 64)
	if err != nil {
		return Callback{}, false
	}
	code := params["resultCode"]
	return Callback{
		OrderRef:   params["orderId"],
		Amount:     amount,
		ResultCode: code,
		Success:    code == "0",
	}, true
}

func (s *MoMoSigner) sign(raw string) string {
	h := hmac.New(sha256.New, []byte(s.cfg.SecretKey))
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}
