package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ErrMenuItemNotFound is returned when a menu item cannot be found or
// does not belong to the caller's venue.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepo encapsulates all database queries related to menu items.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo constructs a MenuRepo with the provided DB handle.
func NewMenuRepo(db *sql.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// Create inserts a new menu item for the venue. On success the item's
// ID and timestamp fields are populated.
func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	const qInsert = `INSERT INTO menu_items (venue_id, name, description, price_cents, category, is_available)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, m.VenueID, m.Name, m.Description, m.PriceCents, m.Category, m.IsAvailable)
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
	m.ID = uint64(id)
	const qSelect = `SELECT created_at, updated_at FROM menu_items WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByIDAndVenue fetches a menu item scoped to the venue.
func (r *MenuRepo) GetByIDAndVenue(ctx context.Context, id, venueID uint64) (*model.MenuItem, error) {
	const q = `SELECT id, venue_id, name, description, price_cents, category, is_available, created_at, updated_at
	           FROM menu_items WHERE id = ? AND venue_id = ?`
	var m model.MenuItem
	err := r.db.QueryRowContext(ctx, q, id, venueID).Scan(
		&m.ID, &m.VenueID, &m.Name, &m.Description, &m.PriceCents, &m.Category, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByVenue returns a venue's menu ordered by category then name.
// When availableOnly is set, items flagged unavailable are skipped;
// public browse endpoints use this form.
func (r *MenuRepo) ListByVenue(ctx context.Context, venueID uint64, availableOnly bool) ([]*model.MenuItem, error) {
	q := `SELECT id, venue_id, name, description, price_cents, category, is_available, created_at, updated_at
	      FROM menu_items WHERE venue_id = ?`
	if availableOnly {
		q += ` AND is_available = TRUE`
	}
	q += ` ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.MenuItem
	for rows.Next() {
		m := &model.MenuItem{}
		if err := rows.Scan(&m.ID, &m.VenueID, &m.Name, &m.Description, &m.PriceCents, &m.Category, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetManyForOrderTx loads the menu items referenced by an order inside
// the order-creation transaction. Unavailable items are excluded so an
// order cannot capture an item that was just taken off the menu. The
// caller compares the returned count with the requested ids to detect
// missing or unavailable items.
func (r *MenuRepo) GetManyForOrderTx(ctx context.Context, tx *sql.Tx, venueID uint64, ids []uint64) (map[uint64]*model.MenuItem, error) {
	out := make(map[uint64]*model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT id, venue_id, name, price_cents FROM menu_items
	          WHERE venue_id = ? AND is_available = TRUE AND id IN (`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, venueID)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		m := &model.MenuItem{}
		if err := rows.Scan(&m.ID, &m.VenueID, &m.Name, &m.PriceCents); err != nil {
			return nil, err
		}
		out[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update changes a menu item scoped to the venue. It returns
// ErrMenuItemNotFound when no row is affected.
func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	const q = `UPDATE menu_items
	           SET name = ?, description = ?, price_cents = ?, category = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND venue_id = ?`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Description, m.PriceCents, m.Category, m.IsAvailable, m.ID, m.VenueID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

// DeleteByIDAndVenue removes a menu item. Order lines snapshot the
// name and price but keep a foreign key on the item, so deleting an
// item that has ever been ordered fails with ErrConflict; such items
// should be marked unavailable instead.
func (r *MenuRepo) DeleteByIDAndVenue(ctx context.Context, id, venueID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ? AND venue_id = ?`, id, venueID)
	if err != nil {
		// 1451: row is referenced by order_items
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
