package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"movieshop/internal/apperr"
	"movieshop/internal/config"

	"github.com/shopspring/decimal"
)

type PaymentClient interface {
	CreatePayment(ctx context.Context, orderRef string, amount decimal.Decimal) (*CreatePaymentResponse, error)
	VerifyWebhookSignature(payload []byte, signature string) error
}

type CreatePaymentResponse struct {
	IntentID    string
	ApprovalURL string
}

type paymentClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	apiKey        string
	webhookSecret string
}

func NewPaymentClient(gatewayCfg *config.Gateway) PaymentClient {
	return &paymentClientImpl{
		httpClient: &http.Client{
			Timeout: gatewayCfg.Timeout,
		},
		baseApiURL:    gatewayCfg.BaseApiURL,
		apiKey:        gatewayCfg.APIKey,
		webhookSecret: gatewayCfg.WebhookSecret,
	}
}

type gatewayLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type gatewayPaymentResult struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Links  []gatewayLink `json:"links"`
}

func (c *paymentClientImpl) CreatePayment(ctx context.Context, orderRef string, amount decimal.Decimal) (*CreatePaymentResponse, error) {
	payload := map[string]interface{}{
		"reference": orderRef,
		"amount": map[string]string{
			"currency_code": "USD",
			"value":         amount.StringFixed(2),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/payments",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway create payment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var result gatewayPaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	return &CreatePaymentResponse{
		IntentID:    result.ID,
		ApprovalURL: _extractApproveURL(result.Links),
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature the gateway puts on
// callback bodies. A callback with a bad signature must never reach the order
// state machine.
func (c *paymentClientImpl) VerifyWebhookSignature(payload []byte, signature string) error {
	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return apperr.ErrPaymentVerification
	}
	return nil
}

func _extractApproveURL(links []gatewayLink) string {
	for _, link := range links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
