package service

import (
	"context"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/notify"
)

// LessonTitles resolves lesson titles for a set of courses.
type LessonTitles interface {
	TitlesByCourse(ctx context.Context, courseIDs []uint64) (map[uint64][]model.LessonTitle, error)
}

// SubscriptionIndex reports which of the given courses a user is
// subscribed to.
type SubscriptionIndex interface {
	SubscribedCourses(ctx context.Context, userID uint64, courseIDs []uint64) (map[uint64]bool, error)
}

// CourseService serves courses and their detail view.
type CourseService struct {
	*Resource[model.Course]
	lessons LessonTitles
	subs    SubscriptionIndex
}

func NewCourseService(store Store[model.Course], lessons LessonTitles, subs SubscriptionIndex, n notify.Notifier) *CourseService {
	policy := Policy[model.Course]{
		Allow: func(a access.Actor, act access.Action, c *model.Course) error {
			var owner *uint64
			if c != nil {
				owner = c.OwnerID
			}
			return access.Content(a, act, owner)
		},
		Scope: access.OwnerScope,
	}
	hooks := Hooks[model.Course]{
		BeforeCreate: func(_ context.Context, a access.Actor, c *model.Course) error {
			owner := a.ID
			c.OwnerID = &owner
			return nil
		},
		AfterUpdate: func(ctx context.Context, _ access.Actor, c *model.Course) {
			n.Notify(ctx, notify.Change{Kind: notify.CourseUpdated, CourseID: c.ID, CourseTitle: c.Title})
		},
	}
	return &CourseService{
		Resource: NewResource("course", store, policy, hooks),
		lessons:  lessons,
		subs:     subs,
	}
}

// ListDetails returns one page of course details.
func (s *CourseService) ListDetails(ctx context.Context, a access.Actor, p ListParams) ([]model.CourseDetail, int, error) {
	courses, total, err := s.List(ctx, a, p)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.Describe(ctx, a, courses)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *CourseService) RetrieveDetail(ctx context.Context, a access.Actor, id uint64) (*model.CourseDetail, error) {
	c, err := s.Retrieve(ctx, a, id)
	if err != nil {
		return nil, err
	}
	out, err := s.Describe(ctx, a, []*model.Course{c})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Describe attaches lesson titles, lesson counts and the actor's
// subscription flag to each course using two batched lookups.
func (s *CourseService) Describe(ctx context.Context, a access.Actor, courses []*model.Course) ([]model.CourseDetail, error) {
	out := make([]model.CourseDetail, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}
	ids := make([]uint64, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	titles, err := s.lessons.TitlesByCourse(ctx, ids)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subs.SubscribedCourses(ctx, a.ID, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		lessons := titles[c.ID]
		if lessons == nil {
			lessons = []model.LessonTitle{}
		}
		out = append(out, model.CourseDetail{
			Course:             *c,
			LessonsCount:       len(lessons),
			Lessons:            lessons,
			CourseSubscription: subscribed[c.ID],
		})
	}
	return out, nil
}
