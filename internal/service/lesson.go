package service

import (
	"context"
	"errors"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/notify"
	"github.com/iliyamo/learning-platform/internal/repository"
)

// CourseLookup fetches a course by id.
type CourseLookup interface {
	Get(ctx context.Context, id uint64) (*model.Course, error)
}

// LessonService serves lessons.  Creating or updating a lesson notifies
// the subscribers of its course.
type LessonService struct {
	*Resource[model.Lesson]
}

func NewLessonService(store Store[model.Lesson], courses CourseLookup, n notify.Notifier) *LessonService {
	policy := Policy[model.Lesson]{
		Allow: func(a access.Actor, act access.Action, l *model.Lesson) error {
			var owner *uint64
			if l != nil {
				owner = l.OwnerID
			}
			return access.Content(a, act, owner)
		},
		Scope: access.OwnerScope,
	}

	// the course title is only needed for the notice
	courseOf := func(ctx context.Context, l *model.Lesson) (*model.Course, error) {
		if l.CourseID == 0 {
			return nil, invalid("course", "course not specified")
		}
		c, err := courses.Get(ctx, l.CourseID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("course", "course does not exist")
		}
		return c, err
	}
	notice := func(ctx context.Context, kind notify.Kind, l *model.Lesson) {
		title := ""
		if c, err := courses.Get(ctx, l.CourseID); err == nil {
			title = c.Title
		}
		n.Notify(ctx, notify.Change{
			Kind:        kind,
			CourseID:    l.CourseID,
			CourseTitle: title,
			LessonID:    l.ID,
			LessonTitle: l.Title,
		})
	}

	hooks := Hooks[model.Lesson]{
		BeforeCreate: func(ctx context.Context, a access.Actor, l *model.Lesson) error {
			if _, err := courseOf(ctx, l); err != nil {
				return err
			}
			owner := a.ID
			l.OwnerID = &owner
			return nil
		},
		AfterCreate: func(ctx context.Context, _ access.Actor, l *model.Lesson) {
			notice(ctx, notify.LessonCreated, l)
		},
		BeforeUpdate: func(ctx context.Context, _ access.Actor, l *model.Lesson) error {
			_, err := courseOf(ctx, l)
			return err
		},
		AfterUpdate: func(ctx context.Context, _ access.Actor, l *model.Lesson) {
			notice(ctx, notify.LessonUpdated, l)
		},
	}
	return &LessonService{Resource: NewResource("lesson", store, policy, hooks)}
}
