package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/notify"
	"github.com/iliyamo/learning-platform/internal/service/servicetest"
)

func newLessonFixture(t *testing.T) (*LessonService, *servicetest.MemStore[model.Lesson], *servicetest.Notifier, *model.Course) {
	t.Helper()
	courses := servicetest.NewCourses()
	course := &model.Course{Title: "Go", OwnerID: ptr(alice.ID)}
	require.NoError(t, courses.Create(context.Background(), course))
	lessons := servicetest.NewLessons()
	n := &servicetest.Notifier{}
	return NewLessonService(lessons, courses, n), lessons, n, course
}

func TestLessonCreateNotifiesSubscribers(t *testing.T) {
	svc, _, n, course := newLessonFixture(t)

	l := &model.Lesson{Title: "Channels", CourseID: course.ID}
	require.NoError(t, svc.Create(context.Background(), bob, l))
	assert.Equal(t, bob.ID, *l.OwnerID)

	require.Len(t, n.Changes(), 1)
	assert.Equal(t, notify.LessonCreated, n.Changes()[0].Kind)
	assert.Equal(t, "Go", n.Changes()[0].CourseTitle)
	assert.Equal(t, "Channels", n.Changes()[0].LessonTitle)
}

func TestLessonCreateRequiresExistingCourse(t *testing.T) {
	svc, lessons, n, _ := newLessonFixture(t)

	err := svc.Create(context.Background(), alice, &model.Lesson{Title: "x", CourseID: 77})
	assert.ErrorIs(t, err, ErrValidation)
	err = svc.Create(context.Background(), alice, &model.Lesson{Title: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, lessons.Len())
	assert.Empty(t, n.Changes())
}

func TestLessonStaffCannotAuthor(t *testing.T) {
	svc, lessons, _, course := newLessonFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Create(ctx, staff, &model.Lesson{Title: "x", CourseID: course.ID}), access.ErrDenied)

	l := &model.Lesson{Title: "x", CourseID: course.ID}
	require.NoError(t, svc.Create(ctx, alice, l))
	assert.ErrorIs(t, svc.Destroy(ctx, staff, l.ID), access.ErrDenied)
	assert.Equal(t, 1, lessons.Len())
}

func TestLessonUpdateByStaffNotifies(t *testing.T) {
	svc, _, n, course := newLessonFixture(t)
	ctx := context.Background()
	l := &model.Lesson{Title: "x", CourseID: course.ID}
	require.NoError(t, svc.Create(ctx, alice, l))

	_, err := svc.Update(ctx, staff, l.ID, func(l *model.Lesson) error {
		l.Title = "y"
		return nil
	})
	require.NoError(t, err)
	require.Len(t, n.Changes(), 2)
	assert.Equal(t, notify.LessonUpdated, n.Changes()[1].Kind)
	assert.Equal(t, "y", n.Changes()[1].LessonTitle)
}

func TestLessonUpdateRejectsMissingCourse(t *testing.T) {
	svc, _, n, course := newLessonFixture(t)
	ctx := context.Background()
	l := &model.Lesson{Title: "x", CourseID: course.ID}
	require.NoError(t, svc.Create(ctx, alice, l))

	_, err := svc.Update(ctx, alice, l.ID, func(l *model.Lesson) error {
		l.CourseID = 999
		return nil
	})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, n.Changes(), 1)
}

func TestLessonListScopedToOwner(t *testing.T) {
	svc, _, _, course := newLessonFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, alice, &model.Lesson{Title: "a", CourseID: course.ID}))
	require.NoError(t, svc.Create(ctx, bob, &model.Lesson{Title: "b", CourseID: course.ID}))

	items, total, err := svc.List(ctx, bob, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "b", items[0].Title)

	_, total, err = svc.List(ctx, staff, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
