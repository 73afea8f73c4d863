package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/glampway/yurt-reservation/internal/model"
)

// MenuRepo manages persistence for menu categories and items.  Items
// carry prices in cents; whether a price is shown to a caller is the
// order flow's concern, not the catalog's.
type MenuRepo struct {
	db *sql.DB
}

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

// Category mirrors the 'menu_categories' table.
type Category struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
}

// MenuItem is a menu row joined with its category name.
type MenuItem struct {
	ID           uint64  `json:"id"`
	CategoryID   uint64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	PriceCents   uint32  `json:"price_cents"`
	ImageURL     *string `json:"image_url"`
	Available    bool    `json:"available"`
}

// ListCategories returns all categories ordered by sort_order.
func (r *MenuRepo) ListCategories(ctx context.Context) ([]Category, error) {
	const q = `SELECT id, name, description, sort_order FROM menu_categories ORDER BY sort_order`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]Category, 0)
	for rows.Next() {
		var c Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.SortOrder); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			c.Description = &d
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListAvailableItems returns orderable items with category names,
// ordered for display (category sort order, then item name).
func (r *MenuRepo) ListAvailableItems(ctx context.Context) ([]MenuItem, error) {
	const q = `SELECT m.id, m.category_id, c.name, m.name, m.description, m.price_cents, m.image_url, m.is_available
	           FROM menu_items m
	           JOIN menu_categories c ON c.id = m.category_id
	           WHERE m.is_available = 1
	           ORDER BY c.sort_order, m.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func scanMenuItem(scan func(dest ...interface{}) error) (MenuItem, error) {
	var m MenuItem
	var desc, img sql.NullString
	err := scan(&m.ID, &m.CategoryID, &m.CategoryName, &m.Name, &desc, &m.PriceCents, &img, &m.Available)
	if err != nil {
		return MenuItem{}, err
	}
	if desc.Valid {
		d := desc.String
		m.Description = &d
	}
	if img.Valid {
		u := img.String
		m.ImageURL = &u
	}
	return m, nil
}

// PricedItemsTx loads the current price snapshot for the requested item
// IDs within a transaction, keyed by item ID.  Unavailable items are
// included with Available=false so the order flow can name the exact
// offender.  Passing no IDs yields an empty map.
func (r *MenuRepo) PricedItemsTx(ctx context.Context, tx *sql.Tx, ids []uint64) (map[uint64]model.PricedItem, error) {
	out := make(map[uint64]model.PricedItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT id, name, price_cents, is_available FROM menu_items WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
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
		var p model.PricedItem
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Available); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// ItemInput carries the writable fields of a menu item for admin CRUD.
type ItemInput struct {
	CategoryID  uint64  `json:"category_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	ImageURL    *string `json:"image_url"`
	Available   *bool   `json:"available"`
}

// CreateItem inserts a menu item and returns its ID.
func (r *MenuRepo) CreateItem(ctx context.Context, in ItemInput) (uint64, error) {
	avail := true
	if in.Available != nil {
		avail = *in.Available
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO menu_items (category_id, name, description, price_cents, image_url, is_available) VALUES (?,?,?,?,?,?)`,
		in.CategoryID, in.Name, in.Description, in.PriceCents, in.ImageURL, avail)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateItem overwrites the writable fields of a menu item.  Returns
// ErrMenuItemNotFound when the row does not exist.
func (r *MenuRepo) UpdateItem(ctx context.Context, id uint64, in ItemInput) error {
	avail := true
	if in.Available != nil {
		avail = *in.Available
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE menu_items SET category_id=?, name=?, description=?, price_cents=?, image_url=?, is_available=?, updated_at=NOW() WHERE id=?`,
		in.CategoryID, in.Name, in.Description, in.PriceCents, in.ImageURL, avail, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from a no-op update.
		var exists uint64
		err := r.db.QueryRowContext(ctx, `SELECT id FROM menu_items WHERE id=?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMenuItemNotFound
		}
		return err
	}
	return nil
}

// DeleteItem removes a menu item.  Historical order lines keep their
// snapshotted prices, but rows referenced by orders are protected by
// the foreign key; those deletions surface as ErrConflict.
func (r *MenuRepo) DeleteItem(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id=?`, id)
	if err != nil {
		// MySQL 1451: cannot delete a parent row referenced by order lines.
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
