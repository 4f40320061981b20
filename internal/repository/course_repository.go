// Package repository contains data access logic separated from HTTP handlers.
// This file holds the course queries: CRUD plus the owner-scoped listing
// used for non-staff users.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
)

const courseColumns = "id, title, description, price, owner_id, created_at, updated_at"

var courseOrder = map[string]bool{"id": true, "title": true, "price": true, "created_at": true}

// CourseRepo encapsulates all database queries related to courses.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo constructs a CourseRepo with the provided DB handle.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create inserts a new course.  On success the course's ID and timestamps
// are populated from the stored row.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	const q = "INSERT INTO courses (title, description, price, owner_id) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.Title, nullString(c.Description), c.Price, nullUint(c.OwnerID))
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
	*c = *stored
	return nil
}

// Get fetches a course by its ID regardless of owner.  It returns
// ErrNotFound if no row is found.
func (r *CourseRepo) Get(ctx context.Context, id uint64) (*model.Course, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+courseColumns+" FROM courses WHERE id = ?", id)
	c, err := scanCourse(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// List returns one page of courses inside the query scope together with
// the total number of matching rows.
func (r *CourseRepo) List(ctx context.Context, q ListQuery) ([]*model.Course, int, error) {
	where := ""
	var args []any
	if !q.Scope.All() {
		where = " WHERE owner_id = ?"
		args = append(args, q.Scope.UserID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + courseColumns + " FROM courses" + where + orderClause(q.OrderBy, courseOrder, "id")
	lim, args := limitClause(q, args)
	rows, err := r.db.QueryContext(ctx, query+lim, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update writes the editable course fields.  The owner is never changed by
// an update.
func (r *CourseRepo) Update(ctx context.Context, c *model.Course) error {
	const q = `UPDATE courses
	           SET title = ?, description = ?, price = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, c.Title, nullString(c.Description), c.Price, c.ID); err != nil {
		return mapErr(err)
	}
	// MySQL reports zero affected rows when nothing changed, so existence
	// is confirmed by reading the row back
	stored, err := r.Get(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// Delete removes a course.  Lessons, subscriptions and payments go with it
// through ON DELETE CASCADE.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(s rowScanner) (*model.Course, error) {
	var (
		c     model.Course
		desc  sql.NullString
		owner sql.NullInt64
	)
	if err := s.Scan(&c.ID, &c.Title, &desc, &c.Price, &owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Description = strPtr(desc)
	c.OwnerID = uintPtr(owner)
	return &c, nil
}
