package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/learning-platform/internal/model"
)

const paymentColumns = "id, user_id, course_id, payment_date, payment_method, is_successful, session"

var paymentOrder = map[string]bool{"payment_date": true}

// PaymentRepo encapsulates queries on the `payments` table.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a payment in a single statement, session included, so a
// card payment is never stored without its checkout session.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (user_id, course_id, payment_date, payment_method, is_successful, session)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		nullUint(p.UserID), p.CourseID, p.PaymentDate.UTC(), string(p.PaymentMethod), p.IsSuccessful, nullString(p.Session))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.Get(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// Get fetches a payment by id.
func (r *PaymentRepo) Get(ctx context.Context, id uint64) (*model.Payment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// List returns one page of payments in the scope, filtered by course and
// method and ordered by payment date when requested.
func (r *PaymentRepo) List(ctx context.Context, q ListQuery) ([]*model.Payment, int, error) {
	where := " WHERE 1=1"
	var args []any
	if !q.Scope.All() {
		where += " AND user_id = ?"
		args = append(args, q.Scope.UserID)
	}
	if q.CourseID != 0 {
		where += " AND course_id = ?"
		args = append(args, q.CourseID)
	}
	if q.Method != "" {
		where += " AND payment_method = ?"
		args = append(args, string(q.Method))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payments"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + paymentColumns + " FROM payments" + where + orderClause(q.OrderBy, paymentOrder, "id")
	lim, args := limitClause(q, args)
	rows, err := r.db.QueryContext(ctx, query+lim, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanPayments(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists the only mutable payment field, the success flag.  The
// flag never goes back from true to false.
func (r *PaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	if !p.IsSuccessful {
		_, err := r.Get(ctx, p.ID)
		return err
	}
	return r.MarkSuccessful(ctx, p.ID)
}

// MarkSuccessful flips is_successful to true.  Calling it on an already
// successful payment is a no-op.
func (r *PaymentRepo) MarkSuccessful(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE payments SET is_successful = TRUE WHERE id = ? AND is_successful = FALSE", id); err != nil {
		return err
	}
	_, err := r.Get(ctx, id)
	return err
}

// ListPending returns card payments with an open session that have not
// been confirmed and were created after since, oldest first.
func (r *PaymentRepo) ListPending(ctx context.Context, since time.Time, limit int) ([]*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + `
	           FROM payments
	           WHERE session IS NOT NULL AND is_successful = FALSE AND payment_date >= ?
	           ORDER BY payment_date ASC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// Delete removes a payment.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPayments(rows *sql.Rows) ([]*model.Payment, error) {
	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPayment(s rowScanner) (*model.Payment, error) {
	var (
		p       model.Payment
		user    sql.NullInt64
		method  string
		session sql.NullString
	)
	if err := s.Scan(&p.ID, &user, &p.CourseID, &p.PaymentDate, &method, &p.IsSuccessful, &session); err != nil {
		return nil, err
	}
	p.UserID = uintPtr(user)
	p.PaymentMethod = model.PaymentMethod(method)
	p.Session = strPtr(session)
	return &p, nil
}
