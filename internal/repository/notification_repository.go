package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ErrNotificationNotFound is returned when a notification cannot be
// found within the caller's inbox.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepo persists inbox entries for venues and customers.
// Rows are written by the notifier as side effects of state changes
// and only ever mutated through the read flag.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert stores a notification row. Exactly one of VenueID and
// CustomerID must be set on the record; the schema enforces the same
// with a CHECK constraint.
func (r *NotificationRepo) Insert(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications (venue_id, customer_id, type, title, message, reservation_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.VenueID, n.CustomerID, n.Type, n.Title, n.Message, n.ReservationID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

const notificationColumns = `id, venue_id, customer_id, type, title, message, reservation_id, is_read, created_at`

func (r *NotificationRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]*model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Notification, 0)
	for rows.Next() {
		n := &model.Notification{}
		if err := rows.Scan(&n.ID, &n.VenueID, &n.CustomerID, &n.Type, &n.Title, &n.Message, &n.ReservationID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForVenue returns the staff inbox, newest first. When unreadOnly
// is set, read entries are skipped.
func (r *NotificationRepo) ListForVenue(ctx context.Context, venueID uint64, unreadOnly bool) ([]*model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE venue_id = ?`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC`
	return r.queryMany(ctx, q, venueID)
}

// ListForCustomer returns the customer inbox, newest first.
func (r *NotificationRepo) ListForCustomer(ctx context.Context, customerID uint64, unreadOnly bool) ([]*model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE customer_id = ?`
	if unreadOnly {
		q += ` AND is_read = FALSE`
	}
	q += ` ORDER BY created_at DESC`
	return r.queryMany(ctx, q, customerID)
}

// MarkReadForVenue flips the read flag on a staff inbox entry.
func (r *NotificationRepo) MarkReadForVenue(ctx context.Context, id, venueID uint64) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = ? AND venue_id = ?`
	return r.exec(ctx, q, id, venueID)
}

// MarkReadForCustomer flips the read flag on a customer inbox entry.
func (r *NotificationRepo) MarkReadForCustomer(ctx context.Context, id, customerID uint64) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = ? AND customer_id = ?`
	return r.exec(ctx, q, id, customerID)
}

// DeleteForVenue removes a staff inbox entry.
func (r *NotificationRepo) DeleteForVenue(ctx context.Context, id, venueID uint64) error {
	const q = `DELETE FROM notifications WHERE id = ? AND venue_id = ?`
	return r.exec(ctx, q, id, venueID)
}

// DeleteForCustomer removes a customer inbox entry.
func (r *NotificationRepo) DeleteForCustomer(ctx context.Context, id, customerID uint64) error {
	const q = `DELETE FROM notifications WHERE id = ? AND customer_id = ?`
	return r.exec(ctx, q, id, customerID)
}

func (r *NotificationRepo) exec(ctx context.Context, q string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
