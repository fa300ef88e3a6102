package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"preparing", StatusPreparing, true},
		{" Ready ", StatusReady, true},
		{"completed", StatusCompleted, true},
		{"", "", false},
		{"DELIVERED", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.raw)
		assert.Equal(t, tt.ok, ok, "input %q", tt.raw)
		assert.Equal(t, tt.want, got, "input %q", tt.raw)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending_to_confirmed", StatusPending, StatusConfirmed, true},
		{"confirmed_to_preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing_to_ready", StatusPreparing, StatusReady, true},
		{"ready_to_completed", StatusReady, StatusCompleted, true},
		{"pending_skips_to_preparing", StatusPending, StatusPreparing, false},
		{"confirmed_skips_to_ready", StatusConfirmed, StatusReady, false},
		{"ready_back_to_preparing", StatusReady, StatusPreparing, false},
		{"cancel_while_pending", StatusPending, StatusCancelled, true},
		{"cancel_while_preparing", StatusPreparing, StatusCancelled, true},
		{"cancel_while_ready", StatusReady, StatusCancelled, true},
		{"cancel_after_completion", StatusCompleted, StatusCancelled, false},
		{"completed_is_terminal", StatusCompleted, StatusConfirmed, false},
		{"cancelled_is_terminal", StatusCancelled, StatusPending, false},
		{"self_transition_rejected", StatusPreparing, StatusPreparing, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParsePaymentStatus(t *testing.T) {
	got, ok := ParsePaymentStatus(" paid ")
	assert.True(t, ok)
	assert.Equal(t, PaymentPaid, got)

	got, ok = ParsePaymentStatus("REFUNDED")
	assert.True(t, ok)
	assert.Equal(t, PaymentRefunded, got)

	_, ok = ParsePaymentStatus("settled")
	assert.False(t, ok)
}

func TestPaymentStatusIsTerminal(t *testing.T) {
	for _, s := range TerminalPaymentStatuses() {
		assert.True(t, s.IsTerminal(), "%s", s)
	}
	assert.False(t, PaymentPending.IsTerminal())
	assert.False(t, PaymentStatus("").IsTerminal())
}

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name     string
		current  PaymentStatus
		incoming PaymentStatus
		want     PaymentStatus
		applied  bool
	}{
		{"pending_to_paid", PaymentPending, PaymentPaid, PaymentPaid, true},
		{"pending_to_failed", PaymentPending, PaymentFailed, PaymentFailed, true},
		{"pending_to_expired", PaymentPending, PaymentExpired, PaymentExpired, true},
		{"replayed_paid_callback", PaymentPaid, PaymentPaid, PaymentPaid, false},
		{"failed_then_paid_not_applied", PaymentFailed, PaymentPaid, PaymentFailed, false},
		{"paid_then_expired_not_applied", PaymentPaid, PaymentExpired, PaymentPaid, false},
		{"same_pending_noop", PaymentPending, PaymentPending, PaymentPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, applied := ApplyPayment(tt.current, tt.incoming)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.applied, applied)
		})
	}
}
