package model

import "time"

// DefaultCoursePrice is applied when a course is created without a price.
const DefaultCoursePrice uint32 = 1000

// Course is a row in the `courses` table.  A course has many lessons and
// an optional owner; the owner drives access scoping for non-staff users.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – course title, at most 100 characters.
//  Description – optional free text.
//  Price       – unsigned price in whole currency units.
//  OwnerID     – user who authored the course (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Course struct {
	ID          uint64    `json:"id"`          // courses.id
	Title       string    `json:"title"`       // courses.title
	Description *string   `json:"description"` // courses.description (nullable)
	Price       uint32    `json:"price"`       // courses.price
	OwnerID     *uint64   `json:"owner"`       // courses.owner_id (nullable)
	CreatedAt   time.Time `json:"created_at"`  // courses.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // courses.updated_at
}

// CourseDetail is the read view of a course: the course itself plus
// values computed from its lessons and the requesting user's
// subscriptions.
type CourseDetail struct {
	Course
	LessonsCount       int           `json:"lessons_count"`
	Lessons            []LessonTitle `json:"lessons"`
	CourseSubscription bool          `json:"course_subscription"`
}
