package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service"
)

// LessonHandler serves /v1/lessons.
type LessonHandler struct {
	Lessons *service.LessonService
}

type lessonCreateInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description"`
	Link        *string `json:"link" validate:"omitempty,videolink"`
	Course      uint64  `json:"course"`
}

type lessonUpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Link        *string `json:"link" validate:"omitempty,videolink"`
	Course      *uint64 `json:"course"`
}

// emptyToNil treats an empty link as no link.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// List handles GET /v1/lessons, optionally filtered by ?course=.
func (h *LessonHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	items, total, err := h.Lessons.List(c.Request().Context(), a, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPage(items, total, p))
}

// Create handles POST /v1/lessons/create (and POST /v1/lessons).
func (h *LessonHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in lessonCreateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	l := &model.Lesson{
		Title:       in.Title,
		Description: in.Description,
		Link:        emptyToNil(in.Link),
		CourseID:    in.Course,
	}
	if err := h.Lessons.Create(c.Request().Context(), a, l); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, l)
}

// Get handles GET /v1/lessons/:id.
func (h *LessonHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	l, err := h.Lessons.Retrieve(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// Update handles PUT and PATCH /v1/lessons/:id/update.
func (h *LessonHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in lessonUpdateInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	if c.Request().Method == http.MethodPut && (in.Title == nil || in.Course == nil) {
		return badRequest("title and course are required")
	}
	l, err := h.Lessons.Update(c.Request().Context(), a, id, func(cur *model.Lesson) error {
		if in.Title != nil {
			cur.Title = *in.Title
		}
		if in.Description != nil {
			cur.Description = *in.Description
		}
		if in.Link != nil {
			cur.Link = emptyToNil(in.Link)
		}
		if in.Course != nil {
			cur.CourseID = *in.Course
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /v1/lessons/:id/delete.
func (h *LessonHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Lessons.Destroy(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
