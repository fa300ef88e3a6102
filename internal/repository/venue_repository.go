// This file defines the repository methods for venue CRUD and
// lookup operations. A Venue represents a restaurant that owns tables,
// menu items, reservations, orders and notifications. Only minimal
// fields should be exposed in public API responses.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *VenueRepo) DB() *sql.DB { return r.db }

// Create inserts a new venue. On success the venue's ID field is
// populated with the auto-generated value and a follow-up SELECT
// fills the timestamp defaults.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const qInsert = "INSERT INTO venues (owner_id, name, address, phone) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, v.OwnerID, v.Name, v.Address, v.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	const qSelect = "SELECT owner_id, name, address, phone, created_at, updated_at FROM venues WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, v.ID).Scan(&v.OwnerID, &v.Name, &v.Address, &v.Phone, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a venue by its ID regardless of owner. It returns
// ErrVenueNotFound if no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = "SELECT id, owner_id, name, address, phone, created_at, updated_at FROM venues WHERE id = ?"
	var v model.Venue
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.OwnerID, &v.Name, &v.Address, &v.Phone, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListAll returns all venues. It is used for public browsing endpoints
// to present available restaurants to unauthenticated users. Only ID,
// Name, Address and Phone are selected to avoid exposing owner or
// timestamp fields.
func (r *VenueRepo) ListAll(ctx context.Context) ([]*model.Venue, error) {
	const q = `SELECT id, name, address, phone FROM venues ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Venue
	for rows.Next() {
		v := &model.Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Phone); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes the venue's name, address and phone provided it
// belongs to the owner. It returns sql.ErrNoRows when no row is
// affected (not found / not owned).
func (r *VenueRepo) Update(ctx context.Context, id, ownerID uint64, name string, address, phone *string) error {
	const q = `UPDATE venues
	           SET name = ?, address = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, name, address, phone, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a venue and all dependent records (tables,
// menu items, reservations, orders, order items, payments and
// notifications) provided it belongs to the specified owner. If the
// venue does not exist, sql.ErrNoRows is returned. If it exists but is
// owned by a different user, ErrForbidden is returned. The deletion
// occurs within a transaction to maintain integrity.
func (r *VenueRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	// Verify venue exists and ownership
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM venues WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	// Cascade delete: payments attached to this venue's orders
	if _, err = tx.ExecContext(ctx,
		`DELETE p FROM payments p
		 JOIN orders o ON o.id = p.order_id
		 WHERE o.venue_id = ?`, id); err != nil {
		return err
	}
	// Delete order items for this venue's orders
	if _, err = tx.ExecContext(ctx,
		`DELETE oi FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.venue_id = ?`, id); err != nil {
		return err
	}
	// Delete orders
	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE venue_id = ?`, id); err != nil {
		return err
	}
	// Delete notifications addressed to the venue or referencing its reservations
	if _, err = tx.ExecContext(ctx,
		`DELETE n FROM notifications n
		 LEFT JOIN reservations res ON res.id = n.reservation_id
		 WHERE n.venue_id = ? OR res.venue_id = ?`, id, id); err != nil {
		return err
	}
	// Delete reservations
	if _, err = tx.ExecContext(ctx, `DELETE FROM reservations WHERE venue_id = ?`, id); err != nil {
		return err
	}
	// Delete menu items and tables
	if _, err = tx.ExecContext(ctx, `DELETE FROM menu_items WHERE venue_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM tables WHERE venue_id = ?`, id); err != nil {
		return err
	}
	// Unbind staff accounts so logins keep working without a venue
	if _, err = tx.ExecContext(ctx, `UPDATE users SET venue_id = NULL WHERE venue_id = ?`, id); err != nil {
		return err
	}
	// Finally delete the venue
	if _, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
