package reservation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-09-12 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		existing  time.Time
		requested time.Time
		conflict  bool
	}{
		{"same_start", at("18:00"), at("18:00"), true},
		{"inside_window", at("18:00"), at("19:30"), true},
		{"existing_inside_requested", at("19:30"), at("18:00"), true},
		{"touching_end_of_window", at("18:00"), at("20:00"), false},
		{"touching_start_of_window", at("20:00"), at("18:00"), false},
		{"one_minute_overlap", at("18:00"), at("19:59"), true},
		{"well_apart", at("12:00"), at("18:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.conflict, Overlaps(tt.existing, tt.requested))
		})
	}
}

// TestOverlapsMatchesIntervalDefinition checks Overlaps against the literal
// interval definition: two service windows of ServiceWindow length conflict
// exactly when each start falls strictly before the other window's end.
func TestOverlapsMatchesIntervalDefinition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 1000; i++ {
		existing := day.Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		requested := day.Add(time.Duration(rng.Intn(24*60)) * time.Minute)
		want := existing.Before(requested.Add(ServiceWindow)) && requested.Before(existing.Add(ServiceWindow))
		assert.Equal(t, want, Overlaps(existing, requested),
			"existing=%s requested=%s", existing.Format("15:04"), requested.Format("15:04"))
	}
}

func TestWindowBounds(t *testing.T) {
	lower, upper := WindowBounds(at("18:00"))
	assert.Equal(t, at("16:00"), lower)
	assert.Equal(t, at("20:00"), upper)

	// Bounds are exclusive: a start exactly on either bound must not
	// conflict, matching the strict comparison in Overlaps.
	assert.False(t, Overlaps(lower, at("18:00")))
	assert.False(t, Overlaps(upper, at("18:00")))
	assert.True(t, Overlaps(lower.Add(time.Minute), at("18:00")))
	assert.True(t, Overlaps(upper.Add(-time.Minute), at("18:00")))
}

func TestParseSlot(t *testing.T) {
	got, err := ParseSlot("2026-09-12", "18:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC), got)

	// The short clock form is accepted too.
	got, err = ParseSlot("2026-09-12", "18:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC), got)

	_, err = ParseSlot("12.09.2026", "18:30")
	assert.Error(t, err)
	_, err = ParseSlot("2026-09-12", "6:30pm")
	assert.Error(t, err)
}

func TestCheckTableAssignment(t *testing.T) {
	id := uint64(7)
	assert.True(t, CheckTableAssignment(&id))
	// Unassigned reservations skip the availability check entirely.
	assert.False(t, CheckTableAssignment(nil))
}
