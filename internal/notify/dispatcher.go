// Package notify tells subscribers of a course that its content changed.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iliyamo/learning-platform/internal/mail"
	"github.com/iliyamo/learning-platform/internal/model"
)

// Kind names the change that triggered a notice.
type Kind string

const (
	CourseUpdated Kind = "course_updated"
	LessonCreated Kind = "lesson_created"
	LessonUpdated Kind = "lesson_updated"
)

// Change describes a content change on a course.
type Change struct {
	Kind        Kind
	CourseID    uint64
	CourseTitle string
	LessonID    uint64
	LessonTitle string
}

// SubscriberLister resolves the subscribers of a course.
type SubscriberLister interface {
	Subscribers(ctx context.Context, courseID uint64) ([]model.Subscriber, error)
}

// Notifier is what content services call after a successful write.
type Notifier interface {
	Notify(ctx context.Context, ch Change)
}

// Dispatcher fans a change out to one mail message per subscriber.
type Dispatcher struct {
	subs   SubscriberLister
	sender mail.Sender
	log    zerolog.Logger
}

func NewDispatcher(subs SubscriberLister, sender mail.Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{subs: subs, sender: sender, log: log.With().Str("component", "notify").Logger()}
}

// Dispatch sends the notice to every subscriber.  A failed delivery does
// not stop the remaining ones; all failures are joined into the returned
// error.
func (d *Dispatcher) Dispatch(ctx context.Context, ch Change) error {
	subs, err := d.subs.Subscribers(ctx, ch.CourseID)
	if err != nil {
		return fmt.Errorf("list subscribers of course %d: %w", ch.CourseID, err)
	}
	var errs []error
	for _, s := range subs {
		if err := d.sender.Send(ctx, Compose(ch, s.Email)); err != nil {
			errs = append(errs, fmt.Errorf("notify user %d: %w", s.UserID, err))
		}
	}
	return errors.Join(errs...)
}

// Notify is the best-effort form of Dispatch: failures are logged and
// never reach the caller.
func (d *Dispatcher) Notify(ctx context.Context, ch Change) {
	if err := d.Dispatch(ctx, ch); err != nil {
		d.log.Warn().Err(err).
			Str("kind", string(ch.Kind)).
			Uint64("course_id", ch.CourseID).
			Msg("notification delivery failed")
	}
}

// Compose builds the message for one subscriber.
func Compose(ch Change, to string) mail.Message {
	m := mail.Message{To: to}
	switch ch.Kind {
	case LessonCreated:
		m.Subject = fmt.Sprintf("New lesson in %q", ch.CourseTitle)
		m.Body = fmt.Sprintf("A new lesson %q was added to the course %q you are subscribed to.", ch.LessonTitle, ch.CourseTitle)
	case LessonUpdated:
		m.Subject = fmt.Sprintf("Lesson updated in %q", ch.CourseTitle)
		m.Body = fmt.Sprintf("The lesson %q of the course %q you are subscribed to has been updated.", ch.LessonTitle, ch.CourseTitle)
	default:
		m.Subject = fmt.Sprintf("Course %q updated", ch.CourseTitle)
		m.Body = fmt.Sprintf("The course %q you are subscribed to has been updated.", ch.CourseTitle)
	}
	return m
}

// Discard is a Notifier that drops every change.
type Discard struct{}

func (Discard) Notify(context.Context, Change) {}
