// Package payment integrates the external payment gateway.  The
// gateway is an external collaborator: the client here creates payment
// requests and maps the gateway's status vocabulary onto the order
// package's payment enum; settlement arrives asynchronously through
// the webhook handler.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-reservation/internal/order"
)

// ErrGatewayUnavailable is returned when the gateway cannot be reached
// or answers with a server error.  Handlers should translate this into
// an HTTP 503 response so callers retry.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// ErrGatewayRejected is returned when the gateway refuses the payment
// request outright (client error).
var ErrGatewayRejected = errors.New("payment gateway rejected request")

// GatewayClient issues payment requests against the configured gateway
// base URL.  A zero timeout falls back to five seconds.
type GatewayClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGatewayClient constructs a GatewayClient.  The http.Client may be
// nil, in which case a client with a five second timeout is used.
func NewGatewayClient(baseURL, apiKey string, client *http.Client) *GatewayClient {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &GatewayClient{baseURL: baseURL, apiKey: apiKey, client: client}
}

// PaymentRequest is the body sent to the gateway when creating a
// payment.  Reference is generated locally and echoed back in the
// webhook so callbacks can be correlated with payment rows.
type PaymentRequest struct {
	Reference   string `json:"reference"`
	OrderID     uint64 `json:"order_id"`
	AmountCents uint32 `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// PaymentResponse is the gateway's answer to a create request.
type PaymentResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
}

// NewReference produces the locally generated reference id shared with
// the gateway.
func NewReference() string {
	return uuid.NewString()
}

// CreatePayment asks the gateway to open a payment for the given order
// and amount.  It returns the gateway's response or
// ErrGatewayUnavailable / ErrGatewayRejected depending on the failure
// class.
func (g *GatewayClient) CreatePayment(ctx context.Context, reference string, orderID uint64, amountCents uint32) (*PaymentResponse, error) {
	body, err := json.Marshal(PaymentRequest{
		Reference:   reference,
		OrderID:     orderID,
		AmountCents: amountCents,
		Currency:    "USD",
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	res, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode >= 500:
		return nil, ErrGatewayUnavailable
	case res.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, string(msg))
	}
	var out PaymentResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &out, nil
}

// WebhookPayload is the asynchronous callback delivered by the
// gateway once a payment settles, fails or expires.
type WebhookPayload struct {
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// gatewayStatuses maps the gateway's status vocabulary onto the
// payment enum.  The gateway uses lowercase strings and a couple of
// synonyms for settled payments.
var gatewayStatuses = map[string]order.PaymentStatus{
	"completed": order.PaymentPaid,
	"success":   order.PaymentPaid,
	"paid":      order.PaymentPaid,
	"pending":   order.PaymentPending,
	"created":   order.PaymentPending,
	"failed":    order.PaymentFailed,
	"declined":  order.PaymentFailed,
	"expired":   order.PaymentExpired,
	"timeout":   order.PaymentExpired,
	"refunded":  order.PaymentRefunded,
}

// MapGatewayStatus translates a gateway status string into the payment
// enum.  The second return value is false for unknown statuses, which
// webhook handlers must reject rather than guess at.
func MapGatewayStatus(raw string) (order.PaymentStatus, bool) {
	s, ok := gatewayStatuses[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}
