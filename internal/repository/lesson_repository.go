package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/learning-platform/internal/model"
)

const lessonColumns = "id, title, description, link, course_id, owner_id, created_at, updated_at"

var lessonOrder = map[string]bool{"id": true, "title": true, "created_at": true}

// LessonRepo encapsulates queries on the `lessons` table.
type LessonRepo struct {
	db *sql.DB
}

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{db: db} }

// Create inserts a lesson.  A lesson pointing at a missing course yields
// ErrForeignKey.
func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	const q = "INSERT INTO lessons (title, description, link, course_id, owner_id) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, l.Title, l.Description, nullString(l.Link), l.CourseID, nullUint(l.OwnerID))
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
	*l = *stored
	return nil
}

// Get fetches a lesson by id.
func (r *LessonRepo) Get(ctx context.Context, id uint64) (*model.Lesson, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+lessonColumns+" FROM lessons WHERE id = ?", id)
	l, err := scanLesson(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return l, nil
}

// List returns one page of lessons inside the scope, optionally limited to
// one course.
func (r *LessonRepo) List(ctx context.Context, q ListQuery) ([]*model.Lesson, int, error) {
	where := " WHERE 1=1"
	var args []any
	if !q.Scope.All() {
		where += " AND owner_id = ?"
		args = append(args, q.Scope.UserID)
	}
	if q.CourseID != 0 {
		where += " AND course_id = ?"
		args = append(args, q.CourseID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lessons"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + lessonColumns + " FROM lessons" + where + orderClause(q.OrderBy, lessonOrder, "id")
	lim, args := limitClause(q, args)
	rows, err := r.db.QueryContext(ctx, query+lim, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update writes the editable lesson fields.
func (r *LessonRepo) Update(ctx context.Context, l *model.Lesson) error {
	const q = `UPDATE lessons
	           SET title = ?, description = ?, link = ?, course_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, l.Title, l.Description, nullString(l.Link), l.CourseID, l.ID); err != nil {
		return mapErr(err)
	}
	stored, err := r.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

// Delete removes a lesson.
func (r *LessonRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TitlesByCourse returns lesson titles grouped by course id, in lesson id
// order, for the given courses.
func (r *LessonRepo) TitlesByCourse(ctx context.Context, courseIDs []uint64) (map[uint64][]model.LessonTitle, error) {
	out := make(map[uint64][]model.LessonTitle, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := "SELECT course_id, title FROM lessons WHERE course_id IN (" + placeholders(len(courseIDs)) + ") ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, idArgs(courseIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			courseID uint64
			title    string
		)
		if err := rows.Scan(&courseID, &title); err != nil {
			return nil, err
		}
		out[courseID] = append(out[courseID], model.LessonTitle{Title: title})
	}
	return out, rows.Err()
}

func scanLesson(s rowScanner) (*model.Lesson, error) {
	var (
		l     model.Lesson
		link  sql.NullString
		owner sql.NullInt64
	)
	if err := s.Scan(&l.ID, &l.Title, &l.Description, &link, &l.CourseID, &owner, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Link = strPtr(link)
	l.OwnerID = uintPtr(owner)
	return &l, nil
}
