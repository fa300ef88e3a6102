package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

type fakeStore struct {
	rows []*model.Notification
	err  error
}

func (f *fakeStore) Insert(_ context.Context, n *model.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, n)
	return nil
}

func TestEmitToVenue(t *testing.T) {
	store := &fakeStore{}
	n := New(store)

	resID := uint64(11)
	n.EmitToVenue(context.Background(), 3, TypeNewReservation, "New reservation", "Party of 4 at 19:00", &resID)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	require.NotNil(t, row.VenueID)
	assert.Equal(t, uint64(3), *row.VenueID)
	assert.Nil(t, row.CustomerID)
	assert.Equal(t, TypeNewReservation, row.Type)
	assert.Equal(t, "New reservation", row.Title)
	require.NotNil(t, row.ReservationID)
	assert.Equal(t, resID, *row.ReservationID)
}

func TestEmitToCustomer(t *testing.T) {
	store := &fakeStore{}
	n := New(store)

	n.EmitToCustomer(context.Background(), 8, TypeOrderStatus, "Order update", "Your order is now preparing", nil)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	require.NotNil(t, row.CustomerID)
	assert.Equal(t, uint64(8), *row.CustomerID)
	assert.Nil(t, row.VenueID)
	assert.Nil(t, row.ReservationID)
	assert.Equal(t, TypeOrderStatus, row.Type)
}

func TestEmitSwallowsStoreErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("table gone")}
	n := New(store)

	// Emission must never surface the failure to the caller.
	n.EmitToVenue(context.Background(), 1, TypeNewOrder, "t", "m", nil)
	n.EmitToCustomer(context.Background(), 2, TypePaymentFailed, "t", "m", nil)
	assert.Empty(t, store.rows)
}

func TestNewRequiresStore(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
