package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
)

// SubscriptionRepo encapsulates queries on the `subscriptions` table.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Create inserts a subscription.  The (user_id, course_id) unique index
// turns a concurrent duplicate into ErrDuplicate.
func (r *SubscriptionRepo) Create(ctx context.Context, s *model.Subscription) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO subscriptions (user_id, course_id) VALUES (?, ?)", s.UserID, s.CourseID)
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
	*s = *stored
	return nil
}

// Get fetches a subscription by id.
func (r *SubscriptionRepo) Get(ctx context.Context, id uint64) (*model.Subscription, error) {
	var s model.Subscription
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, course_id, created_at FROM subscriptions WHERE id = ?", id).
		Scan(&s.ID, &s.UserID, &s.CourseID, &s.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// Exists reports whether the user already holds a subscription for the
// course.
func (r *SubscriptionRepo) Exists(ctx context.Context, userID, courseID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND course_id = ?", userID, courseID).Scan(&n)
	return n > 0, err
}

// ListByUser returns every subscription held by a user.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, course_id, created_at FROM subscriptions WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Subscription
	for rows.Next() {
		s := new(model.Subscription)
		if err := rows.Scan(&s.ID, &s.UserID, &s.CourseID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SubscribedCourses reports, for each of the given courses, whether the
// user is subscribed to it.  Courses without a subscription are absent
// from the result.
func (r *SubscriptionRepo) SubscribedCourses(ctx context.Context, userID uint64, courseIDs []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := "SELECT course_id FROM subscriptions WHERE user_id = ? AND course_id IN (" + placeholders(len(courseIDs)) + ")"
	rows, err := r.db.QueryContext(ctx, q, append([]any{userID}, idArgs(courseIDs)...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Subscribers returns the users subscribed to a course along with their
// email addresses.
func (r *SubscriptionRepo) Subscribers(ctx context.Context, courseID uint64) ([]model.Subscriber, error) {
	const q = `SELECT u.id, u.email
	           FROM subscriptions s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.course_id = ? AND u.is_active = TRUE
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Subscriber
	for rows.Next() {
		var s model.Subscriber
		if err := rows.Scan(&s.UserID, &s.Email); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a subscription.
func (r *SubscriptionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
