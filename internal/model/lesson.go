package model

import "time"

// Lesson is a row in the `lessons` table.  Every lesson belongs to a
// course and is removed together with it.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – lesson title, at most 100 characters.
//  Description – lesson body text.
//  Link        – optional video link on an allow-listed host.
//  CourseID    – owning course.
//  OwnerID     – user who authored the lesson (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Lesson struct {
	ID          uint64    `json:"id"`          // lessons.id
	Title       string    `json:"title"`       // lessons.title
	Description string    `json:"description"` // lessons.description
	Link        *string   `json:"link"`        // lessons.link (nullable)
	CourseID    uint64    `json:"course"`      // lessons.course_id
	OwnerID     *uint64   `json:"owner"`       // lessons.owner_id (nullable)
	CreatedAt   time.Time `json:"created_at"`  // lessons.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // lessons.updated_at
}

// LessonTitle is the nested lesson representation inside a course.
type LessonTitle struct {
	Title string `json:"title"`
}
