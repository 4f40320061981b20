package model

import "time"

// Subscription links a user to a course.  There is at most one
// subscription per (user, course) pair.
type Subscription struct {
	ID        uint64    `json:"id"`         // subscriptions.id
	UserID    uint64    `json:"user"`       // subscriptions.user_id
	CourseID  uint64    `json:"course"`     // subscriptions.course_id
	CreatedAt time.Time `json:"created_at"` // subscriptions.created_at
}

// Subscriber is the minimal view of a subscribed user needed to send
// change notices.
type Subscriber struct {
	UserID uint64
	Email  string
}
