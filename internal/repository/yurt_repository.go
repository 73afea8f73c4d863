package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Yurt mirrors the 'yurts' table.  The booking flow only reads yurts;
// rows are maintained through administrative tooling.
type Yurt struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
	Capacity    uint32  `json:"capacity"`
	PriceCents  uint32  `json:"price_cents"`
	ImageURL    *string `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
}

// YurtRepo manages persistence for yurts.
type YurtRepo struct{ db *sql.DB }

func NewYurtRepo(db *sql.DB) *YurtRepo { return &YurtRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *YurtRepo) DB() *sql.DB { return r.db }

// ListAll returns every yurt ordered by id for the public catalog.
func (r *YurtRepo) ListAll(ctx context.Context) ([]Yurt, error) {
	const q = `SELECT id, name, color, description, capacity, price_cents, image_url, is_available
	           FROM yurts ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	yurts := make([]Yurt, 0)
	for rows.Next() {
		var y Yurt
		var desc, img sql.NullString
		if err := rows.Scan(&y.ID, &y.Name, &y.Color, &desc, &y.Capacity, &y.PriceCents, &img, &y.IsAvailable); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			y.Description = &d
		}
		if img.Valid {
			u := img.String
			y.ImageURL = &u
		}
		yurts = append(yurts, y)
	}
	return yurts, rows.Err()
}

// GetByID returns a single yurt or ErrYurtNotFound.
func (r *YurtRepo) GetByID(ctx context.Context, id uint64) (Yurt, error) {
	const q = `SELECT id, name, color, description, capacity, price_cents, image_url, is_available
	           FROM yurts WHERE id = ?`
	var y Yurt
	var desc, img sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&y.ID, &y.Name, &y.Color, &desc, &y.Capacity, &y.PriceCents, &img, &y.IsAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		return Yurt{}, ErrYurtNotFound
	}
	if err != nil {
		return Yurt{}, err
	}
	if desc.Valid {
		d := desc.String
		y.Description = &d
	}
	if img.Valid {
		u := img.String
		y.ImageURL = &u
	}
	return y, nil
}

// NameTx returns the yurt's display name within a transaction, or
// ErrYurtNotFound.  Used by the booking flow to validate the unit and
// decorate responses without a second round trip after commit.
func (r *YurtRepo) NameTx(ctx context.Context, tx *sql.Tx, id uint64) (string, error) {
	var name string
	err := tx.QueryRowContext(ctx, `SELECT name FROM yurts WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrYurtNotFound
	}
	return name, err
}
