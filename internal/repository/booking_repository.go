package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// BookingRepo provides CRUD operations for bookings.  A booking claims
// one time slot of one yurt on one calendar date.  Slot exclusivity is
// enforced by the uq_bookings_active_slot unique index, which only
// covers rows in status pending or confirmed; the repository maps the
// resulting duplicate-key error to ErrConflict.  All timestamps are
// stored in UTC; booking dates travel as "YYYY-MM-DD" strings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB so handlers can begin transactions
// spanning multiple repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// Booking mirrors the schema of the bookings table.
type Booking struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	YurtID     uint64    `json:"yurt_id"`
	Date       string    `json:"date"`
	Slot       string    `json:"time"`
	Status     string    `json:"status"`
	PaymentRef *string   `json:"payment_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// activeStatuses is the WHERE fragment selecting bookings that still
// occupy their slot.
const activeStatuses = `status IN ('pending','confirmed')`

// BookedSlots returns the slot IDs occupied on the given yurt and date
// by bookings that are pending or confirmed.
func (r *BookingRepo) BookedSlots(ctx context.Context, yurtID uint64, date string) ([]string, error) {
	q := `SELECT time_slot FROM bookings WHERE yurt_id = ? AND booking_date = ? AND ` + activeStatuses
	rows, err := r.db.QueryContext(ctx, q, yurtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]string, 0, 2)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// CreateTx inserts a new pending booking within the scope of an
// existing transaction and populates the generated ID and timestamps on
// the provided record.  When another active booking already holds the
// slot the unique index rejects the insert and ErrConflict is returned.
// The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *Booking) error {
	const q = `INSERT INTO bookings (user_id, yurt_id, booking_date, time_slot, status) VALUES (?, ?, ?, ?, 'pending')`
	result, err := tx.ExecContext(ctx, q, b.UserID, b.YurtID, b.Date, b.Slot)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate defaults and timestamps.
	const sel = `SELECT id, user_id, yurt_id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, status, payment_ref, created_at, updated_at
	             FROM bookings WHERE id = ?`
	return scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b)
}

func scanBooking(row *sql.Row, b *Booking) error {
	var payRef sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.YurtID, &b.Date, &b.Slot, &b.Status,
		&payRef, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	if payRef.Valid {
		ref := payRef.String
		b.PaymentRef = &ref
	}
	return nil
}

// GetByID returns the raw booking row or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (Booking, error) {
	const q = `SELECT id, user_id, yurt_id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, status, payment_ref, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b Booking
	err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	return b, err
}

// GetForUpdateTx loads a booking row with a row lock so a status
// transition can be validated and applied atomically.  Returns
// ErrBookingNotFound when no such booking exists.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (Booking, error) {
	const q = `SELECT id, user_id, yurt_id, DATE_FORMAT(booking_date, '%Y-%m-%d'), time_slot, status, payment_ref, created_at, updated_at
	           FROM bookings WHERE id = ? FOR UPDATE`
	var b Booking
	err := scanBooking(tx.QueryRowContext(ctx, q, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatusTx moves a booking to the given status and stamps the
// update time.  Guard checks belong to the caller; see model.CanTransition.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	return err
}

// UpdatePaymentRefTx sets or clears the free-text payment reference.
func (r *BookingRepo) UpdatePaymentRefTx(ctx context.Context, tx *sql.Tx, id uint64, ref *string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE bookings SET payment_ref = ?, updated_at = NOW() WHERE id = ?`, ref, id)
	return err
}

// BookingDetail is a booking joined with yurt display data, as returned
// to the owning customer.
type BookingDetail struct {
	ID         uint64    `json:"id"`
	YurtID     uint64    `json:"yurt_id"`
	YurtName   string    `json:"yurt_name"`
	YurtColor  string    `json:"yurt_color"`
	YurtImage  *string   `json:"yurt_image,omitempty"`
	Date       string    `json:"date"`
	Slot       string    `json:"time"`
	Status     string    `json:"status"`
	PaymentRef *string   `json:"payment_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// OwnerID is used for the ownership check and never serialized.
	OwnerID uint64 `json:"-"`
}

const detailColumns = `b.id, b.user_id, b.yurt_id, y.name, y.color, y.image_url,
	       DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.status, b.payment_ref, b.created_at`

func scanBookingDetail(scan func(dest ...interface{}) error) (BookingDetail, error) {
	var d BookingDetail
	var img, payRef sql.NullString
	err := scan(&d.ID, &d.OwnerID, &d.YurtID, &d.YurtName, &d.YurtColor, &img,
		&d.Date, &d.Slot, &d.Status, &payRef, &d.CreatedAt)
	if err != nil {
		return BookingDetail{}, err
	}
	if img.Valid {
		u := img.String
		d.YurtImage = &u
	}
	if payRef.Valid {
		ref := payRef.String
		d.PaymentRef = &ref
	}
	return d, nil
}

// GetDetailByID returns a booking with yurt display data or
// ErrBookingNotFound.  Ownership is not enforced here; the handler
// compares OwnerID so that not-found and forbidden stay distinct.
func (r *BookingRepo) GetDetailByID(ctx context.Context, id uint64) (BookingDetail, error) {
	q := `SELECT ` + detailColumns + `
	      FROM bookings b JOIN yurts y ON y.id = b.yurt_id
	      WHERE b.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanBookingDetail(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return BookingDetail{}, ErrBookingNotFound
	}
	return d, err
}

// ListByUser returns the user's bookings with yurt display data, newest
// date first, then newest creation first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	q := `SELECT ` + detailColumns + `
	      FROM bookings b JOIN yurts y ON y.id = b.yurt_id
	      WHERE b.user_id = ?
	      ORDER BY b.booking_date DESC, b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// AdminBookingDetail extends BookingDetail with the owning user's
// contact data for the admin panel.
type AdminBookingDetail struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	YurtID     uint64    `json:"yurt_id"`
	YurtName   string    `json:"yurt_name"`
	Date       string    `json:"booking_date"`
	Slot       string    `json:"time_slot"`
	Status     string    `json:"status"`
	PaymentRef *string   `json:"payment_ref,omitempty"`
	UserName   *string   `json:"user_name"`
	UserEmail  string    `json:"user_email"`
	UserPhone  string    `json:"user_phone"`
	CreatedAt  time.Time `json:"created_at"`
}

const adminColumns = `b.id, b.user_id, b.yurt_id, y.name,
	       DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.status, b.payment_ref,
	       u.name, u.email, u.phone, b.created_at`

func scanAdminDetail(scan func(dest ...interface{}) error) (AdminBookingDetail, error) {
	var d AdminBookingDetail
	var payRef, userName sql.NullString
	err := scan(&d.ID, &d.UserID, &d.YurtID, &d.YurtName,
		&d.Date, &d.Slot, &d.Status, &payRef,
		&userName, &d.UserEmail, &d.UserPhone, &d.CreatedAt)
	if err != nil {
		return AdminBookingDetail{}, err
	}
	if payRef.Valid {
		ref := payRef.String
		d.PaymentRef = &ref
	}
	if userName.Valid {
		n := userName.String
		d.UserName = &n
	}
	return d, nil
}

// ListAll returns one page of bookings joined with yurt and user data,
// optionally filtered by exact status, newest first, along with the
// total row count under the same filter.
func (r *BookingRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]AdminBookingDetail, uint64, error) {
	base := `FROM bookings b
	         JOIN yurts y ON y.id = b.yurt_id
	         JOIN users u ON u.id = b.user_id`
	var (
		where string
		args  []interface{}
	)
	if status != "" && status != "all" {
		where = ` WHERE b.status = ?`
		args = append(args, status)
	}
	q := `SELECT ` + adminColumns + ` ` + base + where + ` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	details := make([]AdminBookingDetail, 0, limit)
	for rows.Next() {
		d, err := scanAdminDetail(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total uint64
	countQ := `SELECT COUNT(*) FROM bookings b` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// AdminGetByID returns a single booking with yurt and user data or
// ErrBookingNotFound.
func (r *BookingRepo) AdminGetByID(ctx context.Context, id uint64) (AdminBookingDetail, error) {
	q := `SELECT ` + adminColumns + `
	      FROM bookings b
	      JOIN yurts y ON y.id = b.yurt_id
	      JOIN users u ON u.id = b.user_id
	      WHERE b.id = ?`
	row := r.db.QueryRowContext(ctx, q, id)
	d, err := scanAdminDetail(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return AdminBookingDetail{}, ErrBookingNotFound
	}
	return d, err
}

// ReminderBooking is the projection handed to the reminder sweep: one
// active booking on the target date with enough context to address a
// notification.
type ReminderBooking struct {
	ID        uint64  `json:"id"`
	YurtName  string  `json:"yurt"`
	Date      string  `json:"date"`
	Slot      string  `json:"time"`
	Status    string  `json:"status"`
	UserName  *string `json:"user"`
	UserEmail string  `json:"email"`
	UserPhone string  `json:"phone"`
}

// DueReminders returns pending/confirmed bookings on the given date,
// ordered by slot then yurt name for deterministic sweeps.
func (r *BookingRepo) DueReminders(ctx context.Context, date string) ([]ReminderBooking, error) {
	q := `SELECT b.id, y.name, DATE_FORMAT(b.booking_date, '%Y-%m-%d'), b.time_slot, b.status, u.name, u.email, u.phone
	      FROM bookings b
	      JOIN yurts y ON y.id = b.yurt_id
	      JOIN users u ON u.id = b.user_id
	      WHERE b.booking_date = ? AND b.` + activeStatuses + `
	      ORDER BY b.time_slot, y.name`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	due := make([]ReminderBooking, 0)
	for rows.Next() {
		var b ReminderBooking
		var userName sql.NullString
		if err := rows.Scan(&b.ID, &b.YurtName, &b.Date, &b.Slot, &b.Status, &userName, &b.UserEmail, &b.UserPhone); err != nil {
			return nil, err
		}
		if userName.Valid {
			n := userName.String
			b.UserName = &n
		}
		due = append(due, b)
	}
	return due, rows.Err()
}

// CountAll returns the total number of bookings.
func (r *BookingRepo) CountAll(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}

// CountByStatus returns the number of bookings in the given status.
func (r *BookingRepo) CountByStatus(ctx context.Context, status string) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE status = ?`, status).Scan(&n)
	return n, err
}

// CountByDate returns the number of bookings on the given date.
func (r *BookingRepo) CountByDate(ctx context.Context, date string) (uint64, error) {
	var n uint64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE booking_date = ?`, date).Scan(&n)
	return n, err
}

// Recent returns the most recently created bookings for the dashboard.
func (r *BookingRepo) Recent(ctx context.Context, limit int) ([]AdminBookingDetail, error) {
	q := `SELECT ` + adminColumns + `
	      FROM bookings b
	      JOIN yurts y ON y.id = b.yurt_id
	      JOIN users u ON u.id = b.user_id
	      ORDER BY b.created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminBookingDetail, 0, limit)
	for rows.Next() {
		d, err := scanAdminDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
