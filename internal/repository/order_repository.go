package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/glampway/yurt-reservation/internal/model"
)

// OrderRepo provides CRUD operations for food orders and their line
// items.  An order hangs off one confirmed booking; line items carry
// the price snapshot taken when the order was placed.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying sql.DB for transaction control.
func (r *OrderRepo) DB() *sql.DB { return r.db }

// Order mirrors the schema of the orders table.
type Order struct {
	ID         uint64
	BookingID  uint64
	UserID     uint64
	TotalCents uint32
	Status     string
	CreatedAt  time.Time
}

// CreateTx inserts the order header within an existing transaction and
// populates the generated ID and timestamps on the provided record.
// The caller must commit or roll back.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *Order) error {
	const q = `INSERT INTO orders (booking_id, user_id, total_cents, status) VALUES (?, ?, ?, 'pending')`
	result, err := tx.ExecContext(ctx, q, o.BookingID, o.UserID, o.TotalCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT id, booking_id, user_id, total_cents, status, created_at FROM orders WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, o.ID).Scan(
		&o.ID, &o.BookingID, &o.UserID, &o.TotalCents, &o.Status, &o.CreatedAt)
}

// CreateLinesBulkTx inserts all order_items rows in a single statement
// within the provided transaction.  Passing no lines is a no-op.
func (r *OrderRepo) CreateLinesBulkTx(ctx context.Context, tx *sql.Tx, orderID uint64, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price_cents, subtotal_cents) VALUES `
	args := make([]interface{}, 0, len(lines)*5)
	for i, l := range lines {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, orderID, l.MenuItemID, l.Quantity, l.UnitPriceCents, l.SubtotalCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// OrderLineDetail is one order line joined with menu display data.
type OrderLineDetail struct {
	ID             uint64  `json:"id"`
	MenuItemID     uint64  `json:"menu_item_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url,omitempty"`
	Quantity       uint32  `json:"quantity"`
	UnitPriceCents uint32  `json:"unit_price_cents"`
	SubtotalCents  uint32  `json:"subtotal_cents"`
}

// OrderDetail is an order with its booking context and line items, as
// returned to the owning customer.
type OrderDetail struct {
	ID          uint64            `json:"id"`
	BookingID   uint64            `json:"booking_id"`
	BookingDate string            `json:"booking_date"`
	Slot        string            `json:"time_slot"`
	YurtName    string            `json:"yurt_name"`
	TotalCents  uint32            `json:"total_cents"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderLineDetail `json:"items"`

	// OwnerID is used for the ownership check and never serialized.
	OwnerID uint64 `json:"-"`
}

// GetDetailByID returns an order with booking context and line items,
// or ErrOrderNotFound.  Ownership is the handler's check, so not-found
// and forbidden stay distinct responses.
func (r *OrderRepo) GetDetailByID(ctx context.Context, id uint64) (OrderDetail, error) {
	const q = `SELECT o.id, o.booking_id, o.user_id, o.total_cents, o.status, o.created_at,
	                  DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, y.name
	           FROM orders o
	           JOIN bookings b ON b.id = o.booking_id
	           JOIN yurts y ON y.id = b.yurt_id
	           WHERE o.id = ?`
	var d OrderDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.BookingID, &d.OwnerID, &d.TotalCents, &d.Status, &d.CreatedAt,
		&d.BookingDate, &d.Slot, &d.YurtName)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderDetail{}, ErrOrderNotFound
	}
	if err != nil {
		return OrderDetail{}, err
	}
	items, err := r.linesByOrder(ctx, d.ID)
	if err != nil {
		return OrderDetail{}, err
	}
	d.Items = items
	return d, nil
}

func (r *OrderRepo) linesByOrder(ctx context.Context, orderID uint64) ([]OrderLineDetail, error) {
	const q = `SELECT oi.id, oi.menu_item_id, m.name, m.description, m.image_url,
	                  oi.quantity, oi.unit_price_cents, oi.subtotal_cents
	           FROM order_items oi
	           JOIN menu_items m ON m.id = oi.menu_item_id
	           WHERE oi.order_id = ?
	           ORDER BY oi.id`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]OrderLineDetail, 0)
	for rows.Next() {
		var l OrderLineDetail
		var desc, img sql.NullString
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.Name, &desc, &img,
			&l.Quantity, &l.UnitPriceCents, &l.SubtotalCents); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			l.Description = &d
		}
		if img.Valid {
			u := img.String
			l.ImageURL = &u
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

// CountAll returns the total number of orders, for the dashboard.
func (r *OrderRepo) CountAll(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}
