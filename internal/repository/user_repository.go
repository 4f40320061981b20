package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/learning-platform/internal/model"
)

const userColumns = "id,email,is_staff,is_active,phone,city,created_at,updated_at"

// UserRepo reads and writes the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a normalized email and fills in the generated
// id and timestamps.  A second account with the same email yields
// ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, is_staff, is_active, phone, city) VALUES (?,?,?,?,?)",
		u.Email, u.IsStaff, u.IsActive, nullString(u.Phone), nullString(u.City))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// SetStaff toggles the staff flag.
func (r *UserRepo) SetStaff(ctx context.Context, id uint64, staff bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_staff=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", staff, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var (
		u           model.User
		phone, city sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.IsStaff, &u.IsActive, &phone, &city, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.Phone = strPtr(phone)
	u.City = strPtr(city)
	return &u, nil
}
