package reservation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"confirmed", StatusConfirmed, true},
		{"  Cancellation_Requested ", StatusCancellationRequested, true},
		{"no_show", StatusNoShow, true},
		{"COMPLETED", StatusCompleted, true},
		{"CANCELLED", StatusCancelled, true},
		{"", StatusUnknown, false},
		{"SEATED", StatusUnknown, false},
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
		{"pending_to_cancelled", StatusPending, StatusCancelled, true},
		{"pending_to_no_show", StatusPending, StatusNoShow, true},
		{"pending_to_completed_skips_confirmation", StatusPending, StatusCompleted, false},
		{"confirmed_to_completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed_to_no_show", StatusConfirmed, StatusNoShow, true},
		{"confirmed_back_to_pending", StatusConfirmed, StatusPending, false},
		{"request_to_cancelled", StatusCancellationRequested, StatusCancelled, true},
		{"request_back_to_confirmed", StatusCancellationRequested, StatusConfirmed, true},
		{"request_to_completed", StatusCancellationRequested, StatusCompleted, false},
		{"completed_is_terminal", StatusCompleted, StatusPending, false},
		{"cancelled_is_terminal", StatusCancelled, StatusConfirmed, false},
		{"no_show_is_terminal", StatusNoShow, StatusCompleted, false},
		{"self_transition_rejected", StatusConfirmed, StatusConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminalAndActive(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusCancellationRequested.IsTerminal())

	// Completed reservations held their table; only cancelled and
	// no-show rows release the slot.
	assert.True(t, StatusCompleted.IsActive())
	assert.True(t, StatusPending.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusNoShow.IsActive())
}

func TestRequestCancellation(t *testing.T) {
	next, reason, err := RequestCancellation(StatusPending, "change of plans")
	require.NoError(t, err)
	assert.Equal(t, StatusCancellationRequested, next)
	assert.Equal(t, "change of plans", reason)

	next, _, err = RequestCancellation(StatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, StatusCancellationRequested, next)

	for _, from := range []Status{StatusCancellationRequested, StatusCompleted, StatusCancelled, StatusNoShow} {
		_, _, err := RequestCancellation(from, "too late")
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", from)
	}
}

func TestRequestCancellationTruncatesReason(t *testing.T) {
	long := strings.Repeat("é", MaxCancellationReasonLen+100)
	_, reason, err := RequestCancellation(StatusConfirmed, long)
	require.NoError(t, err)
	assert.Equal(t, MaxCancellationReasonLen, len([]rune(reason)))
	assert.Equal(t, strings.Repeat("é", MaxCancellationReasonLen), reason)
}

func TestResolveCancellation(t *testing.T) {
	next, err := ApproveCancellation(StatusCancellationRequested)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, next)

	next, err = RejectCancellation(StatusCancellationRequested)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, next)

	for _, from := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		_, err := ApproveCancellation(from)
		assert.ErrorIs(t, err, ErrInvalidTransition, "approve from %s", from)
		_, err = RejectCancellation(from)
		assert.ErrorIs(t, err, ErrInvalidTransition, "reject from %s", from)
	}
}

func TestTruncateReason(t *testing.T) {
	assert.Equal(t, "short", TruncateReason("  short  "))
	assert.Equal(t, "", TruncateReason("   "))
	exact := strings.Repeat("a", MaxCancellationReasonLen)
	assert.Equal(t, exact, TruncateReason(exact))
}
