package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/reservation"
)

// ErrReservationNotFound is returned when a reservation cannot be
// found within the caller's scope. Staff looking up a reservation of
// another venue receive this error, never a hint that the row exists.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides persistence for reservations, including
// the transactional admission check that guards the non-overlap
// invariant. All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, venue_id, customer_id, table_id, starts_at, party_size, status,
	special_requests, cancellation_reason, total_amount_cents, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID, &res.VenueID, &res.CustomerID, &res.TableID, &res.StartsAt, &res.PartySize, &res.Status,
		&res.SpecialRequests, &res.CancellationReason, &res.TotalAmountCents, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateWithAdmission inserts a reservation after checking table
// availability inside a single transaction. When a table is assigned,
// the table row is locked with FOR UPDATE before the conflict scan;
// the row lock serializes admission per table so two concurrent
// requests for the same slot cannot both pass the check. Reservations
// without a table skip the check entirely (walk-in policy).
//
// Returns ErrTableNotFound when the table does not belong to the
// venue and ErrTableUnavailable when the table is closed for booking
// or an active reservation overlaps the requested service window.
func (r *ReservationRepo) CreateWithAdmission(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if reservation.CheckTableAssignment(res.TableID) {
		// Lock the table row first. Every admission for this table
		// queues on this lock until the transaction commits.
		const qTable = `SELECT is_available FROM tables WHERE id = ? AND venue_id = ? FOR UPDATE`
		var available bool
		if err := tx.QueryRowContext(ctx, qTable, *res.TableID, res.VenueID).Scan(&available); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTableNotFound
			}
			return err
		}
		if !available {
			return ErrTableUnavailable
		}
		conflicts, err := countConflictsTx(ctx, tx, *res.TableID, res.StartsAt)
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrTableUnavailable
		}
	}

	const qInsert = `INSERT INTO reservations
	                 (venue_id, customer_id, table_id, starts_at, party_size, status, special_requests)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qInsert,
		res.VenueID, res.CustomerID, res.TableID, res.StartsAt.UTC(), res.PartySize, res.Status, res.SpecialRequests)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const qSelect = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, qSelect, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// countConflictsTx counts active reservations on the table whose
// service window overlaps one starting at startsAt. Two equal-width
// windows overlap exactly when their start times are strictly less
// than the window width apart, so the scan is a pair of strict
// inequalities: windows that touch at a boundary do not conflict.
func countConflictsTx(ctx context.Context, tx *sql.Tx, tableID uint64, startsAt time.Time) (int, error) {
	lower, upper := reservation.WindowBounds(startsAt.UTC())
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE table_id = ? AND starts_at > ? AND starts_at < ?
	             AND status NOT IN (?, ?)`
	var n int
	err := tx.QueryRowContext(ctx, q, tableID, lower, upper,
		reservation.StatusCancelled, reservation.StatusNoShow).Scan(&n)
	return n, err
}

// IsAvailable is the read-only availability probe. It reports whether
// the table could currently admit a reservation at startsAt. The
// answer is advisory; admission itself re-checks under the table lock.
func (r *ReservationRepo) IsAvailable(ctx context.Context, venueID, tableID uint64, startsAt time.Time) (bool, error) {
	const qTable = `SELECT is_available FROM tables WHERE id = ? AND venue_id = ?`
	var available bool
	if err := r.db.QueryRowContext(ctx, qTable, tableID, venueID).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrTableNotFound
		}
		return false, err
	}
	if !available {
		return false, nil
	}
	lower, upper := reservation.WindowBounds(startsAt.UTC())
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE table_id = ? AND starts_at > ? AND starts_at < ?
	             AND status NOT IN (?, ?)`
	var n int
	if err := r.db.QueryRowContext(ctx, q, tableID, lower, upper,
		reservation.StatusCancelled, reservation.StatusNoShow).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// GetByIDForCustomer returns a reservation owned by the customer.
// ErrReservationNotFound is returned when the row does not exist or
// belongs to someone else.
func (r *ReservationRepo) GetByIDForCustomer(ctx context.Context, id, customerID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND customer_id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// GetByIDForVenue returns a reservation scoped to the staff caller's
// venue. Out-of-venue lookups surface as ErrReservationNotFound.
func (r *ReservationRepo) GetByIDForVenue(ctx context.Context, id, venueID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND venue_id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id, venueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListByCustomer returns all reservations of the customer, newest
// first.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE customer_id = ? ORDER BY starts_at DESC`
	return r.queryMany(ctx, q, customerID)
}

// ListByVenue returns the venue's reservations filtered by optional
// date (matching the calendar day of starts_at) and status. Results
// are ordered by start time ascending so staff see the day's plan in
// serving order.
func (r *ReservationRepo) ListByVenue(ctx context.Context, venueID uint64, date, status string) ([]*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE venue_id = ?`
	args := []interface{}{venueID}
	if date != "" {
		q += ` AND DATE(starts_at) = ?`
		args = append(args, date)
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY starts_at`
	return r.queryMany(ctx, q, args...)
}

func (r *ReservationRepo) queryMany(ctx context.Context, q string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateByVenueTx loads a reservation with a row lock inside the
// caller's transaction, scoped to the staff venue. The lock holds the
// status stable while the handler evaluates a transition guard.
func (r *ReservationRepo) GetForUpdateByVenueTx(ctx context.Context, tx *sql.Tx, id, venueID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND venue_id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id, venueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// GetForUpdateByCustomerTx is the customer-scoped variant of
// GetForUpdateByVenueTx.
func (r *ReservationRepo) GetForUpdateByCustomerTx(ctx context.Context, tx *sql.Tx, id, customerID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND customer_id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id, customerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatusTx writes a new status and cancellation reason inside
// the caller's transaction. Passing a nil reason clears the stored
// one, which approval and rejection both do.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, reason *string) error {
	const q = `UPDATE reservations
	           SET status = ?, cancellation_reason = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, reason, id)
	return err
}

// UpdateSpecialRequests lets a customer change the free-text requests
// on their own reservation. Requests stay editable only while the
// reservation is active; an existing but terminal reservation returns
// ErrConflict.
func (r *ReservationRepo) UpdateSpecialRequests(ctx context.Context, id, customerID uint64, requests *string) error {
	const q = `UPDATE reservations
	           SET special_requests = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND customer_id = ? AND status IN (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, requests, id, customerID,
		reservation.StatusPending, reservation.StatusConfirmed, reservation.StatusCancellationRequested)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Distinguish a missing row from one that is no longer editable.
	// MySQL also reports zero affected rows when the new value equals
	// the old one, so an active status here means a harmless no-op.
	var status string
	err = r.db.QueryRowContext(ctx,
		`SELECT status FROM reservations WHERE id = ? AND customer_id = ?`, id, customerID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if s, ok := reservation.ParseStatus(status); ok && !s.IsTerminal() {
		return nil
	}
	return ErrConflict
}

// AddToTotalTx increases the reservation's running total when an order
// is placed against it, inside the order-creation transaction.
func (r *ReservationRepo) AddToTotalTx(ctx context.Context, tx *sql.Tx, id uint64, amountCents uint32) error {
	const q = `UPDATE reservations
	           SET total_amount_cents = total_amount_cents + ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, amountCents, id)
	return err
}
