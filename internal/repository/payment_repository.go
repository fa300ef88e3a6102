package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/order"
)

// ErrPaymentNotFound is returned when a payment cannot be found within
// the caller's scope, or when a webhook references an unknown payment.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo provides persistence for payment rows. The gateway
// webhook path relies on ApplyStatusTx, whose WHERE clause refuses to
// overwrite a terminal status so replayed callbacks become no-ops at
// the database level.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *PaymentRepo) DB() *sql.DB { return r.db }

const paymentColumns = `id, order_id, venue_id, method, gateway_ref, amount_cents, status, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.VenueID, &p.Method, &p.GatewayRef, &p.AmountCents, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment row. On success the ID and timestamps are
// populated on the provided record.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (order_id, venue_id, method, gateway_ref, amount_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.OrderID, p.VenueID, p.Method, p.GatewayRef, p.AmountCents, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// CreateTx is Create within the caller's transaction, used when the
// payment row must commit atomically with the order update.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (order_id, venue_id, method, gateway_ref, amount_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.OrderID, p.VenueID, p.Method, p.GatewayRef, p.AmountCents, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByRefTx loads a payment by its gateway reference with a row lock
// inside the caller's transaction. Webhook handling locks the row so
// concurrent replays of the same callback serialize.
func (r *PaymentRepo) GetByRefTx(ctx context.Context, tx *sql.Tx, ref string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_ref = ? FOR UPDATE`
	p, err := scanPayment(tx.QueryRowContext(ctx, q, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// ApplyStatusTx writes a new payment status provided the current one
// is not terminal. It reports whether the update was applied: false
// means the row was already in a terminal state and the caller must
// skip every side effect of the transition.
func (r *PaymentRepo) ApplyStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status order.PaymentStatus) (bool, error) {
	terminal := order.TerminalPaymentStatuses()
	q := `UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status NOT IN (`
	args := []interface{}{string(status), id}
	for i, t := range terminal {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, string(t))
	}
	q += ")"
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByIDForVenue returns a payment scoped to the staff caller's
// venue.
func (r *PaymentRepo) GetByIDForVenue(ctx context.Context, id, venueID uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? AND venue_id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id, venueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByOrder returns all payment attempts recorded against an order,
// oldest first.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID uint64) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
