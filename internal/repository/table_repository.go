package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/reservation"
)

// ErrTableNotFound is returned when a table cannot be found or does
// not belong to the caller's venue.
var ErrTableNotFound = errors.New("table not found")

// TableRepo encapsulates all database queries related to dining
// tables. Writes are always scoped by venue so that staff cannot
// touch another venue's tables.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the provided DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// Create inserts a new table for the venue. On success the table's ID
// and timestamp fields are populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const qInsert = `INSERT INTO tables (venue_id, table_number, capacity, location, is_available)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, t.VenueID, t.TableNumber, t.Capacity, t.Location, t.IsAvailable)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const qSelect = `SELECT created_at, updated_at FROM tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByIDAndVenue fetches a table by id scoped to the venue. It
// returns ErrTableNotFound when the table does not exist or belongs to
// a different venue, so callers never learn about foreign tables.
func (r *TableRepo) GetByIDAndVenue(ctx context.Context, id, venueID uint64) (*model.Table, error) {
	const q = `SELECT id, venue_id, table_number, capacity, location, is_available, created_at, updated_at
	           FROM tables WHERE id = ? AND venue_id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id, venueID).Scan(
		&t.ID, &t.VenueID, &t.TableNumber, &t.Capacity, &t.Location, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListByVenue returns all tables of a venue ordered by table number.
// When availableOnly is set, tables flagged unavailable are skipped;
// public browse endpoints use this form.
func (r *TableRepo) ListByVenue(ctx context.Context, venueID uint64, availableOnly bool) ([]*model.Table, error) {
	q := `SELECT id, venue_id, table_number, capacity, location, is_available, created_at, updated_at
	      FROM tables WHERE venue_id = ?`
	if availableOnly {
		q += ` AND is_available = TRUE`
	}
	q += ` ORDER BY table_number`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Table
	for rows.Next() {
		t := &model.Table{}
		if err := rows.Scan(&t.ID, &t.VenueID, &t.TableNumber, &t.Capacity, &t.Location, &t.IsAvailable, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a table's number, capacity, location and availability
// flag scoped to the venue. It returns ErrTableNotFound when no row is
// affected.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables
	           SET table_number = ?, capacity = ?, location = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity, t.Location, t.IsAvailable, t.ID, t.VenueID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

// DeleteByIDAndVenue removes a table provided it has no active
// reservations. It returns ErrTableNotFound when the table does not
// exist in the venue and ErrConflict when active reservations still
// reference it.
func (r *TableRepo) DeleteByIDAndVenue(ctx context.Context, id, venueID uint64) error {
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
	var exists uint64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM tables WHERE id = ? AND venue_id = ?`, id, venueID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTableNotFound
		}
		return err
	}
	var active int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE table_id = ? AND status NOT IN (?, ?, ?)`,
		id, reservation.StatusCancelled, reservation.StatusNoShow, reservation.StatusCompleted).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
