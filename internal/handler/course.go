package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service"
)

// CourseHandler serves /v1/courses.
type CourseHandler struct {
	Courses *service.CourseService
}

type courseCreateInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0,lte=4294967295"`
}

type courseUpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0,lte=4294967295"`
}

// List handles GET /v1/courses.  Non-staff users only see their own
// courses.
func (h *CourseHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	items, total, err := h.Courses.ListDetails(c.Request().Context(), a, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPage(items, total, p))
}

// Create handles POST /v1/courses.  The owner is always the caller.
func (h *CourseHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in courseCreateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	course := &model.Course{Title: in.Title, Description: in.Description, Price: model.DefaultCoursePrice}
	if in.Price != nil {
		course.Price = uint32(*in.Price)
	}
	ctx := c.Request().Context()
	if err := h.Courses.Create(ctx, a, course); err != nil {
		return err
	}
	out, err := h.Courses.Describe(ctx, a, []*model.Course{course})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out[0])
}

// Get handles GET /v1/courses/:id.
func (h *CourseHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	d, err := h.Courses.RetrieveDetail(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles PUT and PATCH /v1/courses/:id.  PUT requires the title;
// PATCH changes only the fields present.  The owner never changes.
func (h *CourseHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in courseUpdateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	if c.Request().Method == http.MethodPut && in.Title == nil {
		return badRequest("title is required")
	}
	ctx := c.Request().Context()
	course, err := h.Courses.Update(ctx, a, id, func(cur *model.Course) error {
		if in.Title != nil {
			cur.Title = *in.Title
		}
		if in.Description != nil {
			cur.Description = in.Description
		}
		if in.Price != nil {
			cur.Price = uint32(*in.Price)
		}
		return nil
	})
	if err != nil {
		return err
	}
	out, err := h.Courses.Describe(ctx, a, []*model.Course{course})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out[0])
}

// Delete handles DELETE /v1/courses/:id.
func (h *CourseHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Courses.Destroy(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
