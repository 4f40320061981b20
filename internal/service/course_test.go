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

var (
	alice = access.Actor{ID: 1, Email: "alice@lms.local"}
	bob   = access.Actor{ID: 2, Email: "bob@lms.local"}
	staff = access.Actor{ID: 9, Email: "staff@lms.local", IsStaff: true}
)

type courseFixture struct {
	courses  *servicetest.MemStore[model.Course]
	lessons  *servicetest.MemStore[model.Lesson]
	subs     *servicetest.Subscriptions
	notifier *servicetest.Notifier
	svc      *CourseService
}

func newCourseFixture() *courseFixture {
	f := &courseFixture{
		courses:  servicetest.NewCourses(),
		lessons:  servicetest.NewLessons(),
		subs:     servicetest.NewSubscriptions(),
		notifier: &servicetest.Notifier{},
	}
	f.svc = NewCourseService(f.courses, servicetest.LessonIndex{Lessons: f.lessons}, f.subs, f.notifier)
	return f
}

func (f *courseFixture) create(t *testing.T, a access.Actor, title string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Price: model.DefaultCoursePrice}
	require.NoError(t, f.svc.Create(context.Background(), a, c))
	return c
}

func TestCourseListIsOwnerScoped(t *testing.T) {
	f := newCourseFixture()
	c1 := f.create(t, alice, "C1")
	f.create(t, bob, "C2")
	ctx := context.Background()

	mine, total, err := f.svc.ListDetails(ctx, alice, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)
	assert.Equal(t, c1.ID, mine[0].ID)

	all, total, err := f.svc.ListDetails(ctx, staff, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)
}

func TestCourseListPaginates(t *testing.T) {
	f := newCourseFixture()
	for i := 0; i < 3; i++ {
		f.create(t, alice, "C")
	}
	page, total, err := f.svc.ListDetails(context.Background(), alice, ListParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestCourseCreateSetsOwnerAndRejectsStaff(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")
	require.NotNil(t, c.OwnerID)
	assert.Equal(t, alice.ID, *c.OwnerID)

	err := f.svc.Create(context.Background(), staff, &model.Course{Title: "Nope"})
	assert.ErrorIs(t, err, access.ErrDenied)
	assert.Equal(t, 1, f.courses.Len())
}

func TestCourseRetrieve(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")
	ctx := context.Background()

	_, err := f.svc.RetrieveDetail(ctx, bob, c.ID)
	assert.ErrorIs(t, err, access.ErrDenied)

	_, err = f.svc.RetrieveDetail(ctx, staff, c.ID)
	assert.NoError(t, err)

	_, err = f.svc.RetrieveDetail(ctx, alice, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseDetailComputedFields(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")
	ctx := context.Background()
	require.NoError(t, f.lessons.Create(ctx, &model.Lesson{Title: "Intro", CourseID: c.ID}))
	require.NoError(t, f.lessons.Create(ctx, &model.Lesson{Title: "Maps", CourseID: c.ID}))
	require.NoError(t, f.subs.Create(ctx, &model.Subscription{UserID: alice.ID, CourseID: c.ID}))

	d, err := f.svc.RetrieveDetail(ctx, alice, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.LessonsCount)
	assert.Equal(t, []model.LessonTitle{{Title: "Intro"}, {Title: "Maps"}}, d.Lessons)
	assert.True(t, d.CourseSubscription)

	d, err = f.svc.RetrieveDetail(ctx, staff, c.ID)
	require.NoError(t, err)
	assert.False(t, d.CourseSubscription)
}

func TestCourseUpdateNotifiesAndKeepsOwner(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")

	updated, err := f.svc.Update(context.Background(), staff, c.ID, func(c *model.Course) error {
		c.Title = "Go 2"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Go 2", updated.Title)
	assert.Equal(t, alice.ID, *updated.OwnerID)

	require.Len(t, f.notifier.Changes(), 1)
	assert.Equal(t, notify.Change{Kind: notify.CourseUpdated, CourseID: c.ID, CourseTitle: "Go 2"}, f.notifier.Changes()[0])
}

func TestCourseUpdateDeniedDoesNotNotify(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")

	_, err := f.svc.Update(context.Background(), bob, c.ID, func(*model.Course) error { return nil })
	assert.ErrorIs(t, err, access.ErrDenied)
	assert.Empty(t, f.notifier.Changes())
}

func TestCourseDestroy(t *testing.T) {
	f := newCourseFixture()
	c := f.create(t, alice, "Go")
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Destroy(ctx, staff, c.ID), access.ErrDenied)
	assert.ErrorIs(t, f.svc.Destroy(ctx, bob, c.ID), access.ErrDenied)
	require.NoError(t, f.svc.Destroy(ctx, alice, c.ID))
	assert.ErrorIs(t, f.svc.Destroy(ctx, alice, c.ID), ErrNotFound)
}

func TestListParamsNormalize(t *testing.T) {
	assert.Equal(t, ListParams{Page: 1, PageSize: DefaultPageSize}, ListParams{}.Normalize())
	assert.Equal(t, MaxPageSize, ListParams{PageSize: 1000}.Normalize().PageSize)
}

func ptr[T any](v T) *T { return &v }
