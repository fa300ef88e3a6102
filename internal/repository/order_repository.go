package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ErrOrderNotFound is returned when an order cannot be found within
// the caller's scope.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides CRUD operations for orders and their line items.
// Orders group together one or more menu items bought by a customer
// at a venue. Line items are stored in the order_items table and are
// immutable after insertion. All timestamp fields are assumed to be
// stored in UTC.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }

const orderColumns = `id, venue_id, customer_id, reservation_id, status, payment_status,
	total_amount_cents, notes, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.VenueID, &o.CustomerID, &o.ReservationID, &o.Status, &o.PaymentStatus,
		&o.TotalAmountCents, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateTx inserts a new order within the scope of an existing
// transaction. It populates the generated ID and timestamps on the
// provided record. The caller must commit or rollback the
// transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (venue_id, customer_id, reservation_id, status, payment_status, total_amount_cents, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		o.VenueID, o.CustomerID, o.ReservationID, o.Status, o.PaymentStatus, o.TotalAmountCents, o.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// CreateItemsBulkTx inserts multiple order_items rows in a single
// statement. The caller must supply the order ID in each record.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price_cents) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.MenuItemID, it.Name, it.Quantity, it.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListItems returns the line items of an order ordered by id.
func (r *OrderRepo) ListItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	const q = `SELECT id, order_id, menu_item_id, name, quantity, unit_price_cents, created_at
	           FROM order_items WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPriceCents, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByIDForCustomer returns an order owned by the customer or
// ErrOrderNotFound.
func (r *OrderRepo) GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND customer_id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetByIDForVenue returns an order scoped to the staff caller's venue.
// Out-of-venue lookups surface as ErrOrderNotFound.
func (r *OrderRepo) GetByIDForVenue(ctx context.Context, id, venueID uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND venue_id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id, venueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = ? ORDER BY created_at DESC`
	return r.queryMany(ctx, q, customerID)
}

// ListByVenue returns the venue's orders with an optional fulfillment
// status filter, newest first.
func (r *OrderRepo) ListByVenue(ctx context.Context, venueID uint64, status string) ([]*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE venue_id = ?`
	args := []interface{}{venueID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.queryMany(ctx, q, args...)
}

func (r *OrderRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateByVenueTx loads an order with a row lock inside the
// caller's transaction, scoped to the staff venue. The lock holds the
// status stable while the handler evaluates a transition guard.
func (r *OrderRepo) GetForUpdateByVenueTx(ctx context.Context, tx *sql.Tx, id, venueID uint64) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND venue_id = ? FOR UPDATE`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, id, venueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// UpdateStatusTx writes a new fulfillment status inside the caller's
// transaction.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// UpdatePaymentStatusTx writes a new payment status inside the
// caller's transaction. Fulfillment status is untouched; the two axes
// move independently.
func (r *OrderRepo) UpdatePaymentStatusTx(ctx context.Context, tx *sql.Tx, id uint64, paymentStatus string) error {
	const q = `UPDATE orders SET payment_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, paymentStatus, id)
	return err
}
