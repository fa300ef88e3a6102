package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/order"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want order.PaymentStatus
		ok   bool
	}{
		{"completed", order.PaymentPaid, true},
		{"SUCCESS", order.PaymentPaid, true},
		{" Paid ", order.PaymentPaid, true},
		{"pending", order.PaymentPending, true},
		{"created", order.PaymentPending, true},
		{"failed", order.PaymentFailed, true},
		{"declined", order.PaymentFailed, true},
		{"expired", order.PaymentExpired, true},
		{"timeout", order.PaymentExpired, true},
		{"refunded", order.PaymentRefunded, true},
		{"", "", false},
		{"chargeback", "", false},
	}
	for _, tt := range tests {
		got, ok := MapGatewayStatus(tt.raw)
		assert.Equal(t, tt.ok, ok, "input %q", tt.raw)
		assert.Equal(t, tt.want, got, "input %q", tt.raw)
	}
}

func TestCreatePayment(t *testing.T) {
	var seen PaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payments", r.URL.Path)
		assert.Equal(t, "Bearer sekret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		_ = json.NewEncoder(w).Encode(PaymentResponse{
			Reference:   seen.Reference,
			RedirectURL: "https://pay.example/" + seen.Reference,
			Status:      "created",
		})
	}))
	defer srv.Close()

	g := NewGatewayClient(srv.URL, "sekret", srv.Client())
	res, err := g.CreatePayment(context.Background(), "ref-1", 42, 2599)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", res.Reference)
	assert.Equal(t, "https://pay.example/ref-1", res.RedirectURL)
	assert.Equal(t, "created", res.Status)
	assert.Equal(t, uint64(42), seen.OrderID)
	assert.Equal(t, uint32(2599), seen.AmountCents)
	assert.Equal(t, "USD", seen.Currency)
}

func TestCreatePaymentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGatewayClient(srv.URL, "", srv.Client())
	_, err := g.CreatePayment(context.Background(), "ref-2", 1, 100)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCreatePaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"amount too small"}`))
	}))
	defer srv.Close()

	g := NewGatewayClient(srv.URL, "", srv.Client())
	_, err := g.CreatePayment(context.Background(), "ref-3", 1, 0)
	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCreatePaymentUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	g := NewGatewayClient(srv.URL, "", nil)
	_, err := g.CreatePayment(context.Background(), "ref-4", 1, 100)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestNewReference(t *testing.T) {
	a := NewReference()
	b := NewReference()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
