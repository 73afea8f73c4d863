package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/glampway/yurt-reservation/internal/utils"
)

// User mirrors the 'users' table.
type User struct {
	ID            uint64
	Email         string
	PasswordHash  string
	Phone         string
	Name          *string
	Role          string
	EmailVerified bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Roles stored in users.role and carried in the JWT role claim.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Create inserts a user and returns its ID.  The email is normalized
// before insertion and the password hashed with the configured cost.
// New accounts start unverified; the verification token is managed by
// TokenRepo.
func (r *UserRepo) Create(ctx context.Context, email, password, phone, name, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var nameVal interface{}
	if name != "" {
		nameVal = name
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, phone, name, role) VALUES (?,?,?,?,?)",
		email, hash, phone, nameVal, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *UserRepo) scanRow(row *sql.Row) (User, error) {
	var u User
	var name sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Phone, &name, &u.Role,
		&u.EmailVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if name.Valid {
		n := name.String
		u.Name = &n
	}
	return u, nil
}

const userColumns = "id,email,password_hash,phone,name,role,email_verified,is_active,created_at,updated_at"

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	return r.scanRow(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// MarkVerified flags the user's email address as verified.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified=1, updated_at=NOW() WHERE id=?", id)
	return err
}

// AdminUser is the reduced projection returned to the admin panel.
// Password hashes never leave the repository.
type AdminUser struct {
	ID            uint64    `json:"id"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Name          *string   `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListAll returns every user ordered by registration time descending.
func (r *UserRepo) ListAll(ctx context.Context) ([]AdminUser, error) {
	const q = `SELECT id, email, phone, name, email_verified, created_at
	           FROM users ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]AdminUser, 0)
	for rows.Next() {
		var u AdminUser
		var name sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.Phone, &name, &u.EmailVerified, &u.CreatedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			n := name.String
			u.Name = &n
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountAll returns the total number of users, for the dashboard.
func (r *UserRepo) CountAll(ctx context.Context) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
