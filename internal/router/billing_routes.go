package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/handler"
)

// RegisterBilling registers subscription and payment endpoints on the
// protected group.
func RegisterBilling(g *echo.Group, subs *handler.SubscriptionHandler, payments *handler.PaymentHandler) {
	g.GET("/subscriptions", subs.List)
	g.POST("/subscriptions", subs.Create)
	g.DELETE("/subscriptions/:id", subs.Delete)

	g.GET("/payments", payments.List)
	g.POST("/payments", payments.Create)
	g.GET("/payments/:id", payments.Get)
	g.DELETE("/payments/:id", payments.Delete)
}
