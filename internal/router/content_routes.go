package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/handler"
)

// RegisterContent registers course and lesson endpoints on the protected
// group.  Lesson routes keep their action-suffixed paths (/create,
// /:id/update, /:id/delete); POST /lessons is accepted as well.
func RegisterContent(g *echo.Group, courses *handler.CourseHandler, lessons *handler.LessonHandler) {
	g.GET("/courses", courses.List)
	g.POST("/courses", courses.Create)
	g.GET("/courses/:id", courses.Get)
	g.PUT("/courses/:id", courses.Update)
	g.PATCH("/courses/:id", courses.Update)
	g.DELETE("/courses/:id", courses.Delete)

	g.GET("/lessons", lessons.List)
	g.POST("/lessons", lessons.Create)
	g.POST("/lessons/create", lessons.Create)
	g.GET("/lessons/:id", lessons.Get)
	g.PUT("/lessons/:id/update", lessons.Update)
	g.PATCH("/lessons/:id/update", lessons.Update)
	g.DELETE("/lessons/:id/delete", lessons.Delete)
}
