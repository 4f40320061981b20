package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/service"
)

// SubscriptionHandler serves /v1/subscriptions.
type SubscriptionHandler struct {
	Subscriptions *service.SubscriptionService
}

type subscriptionInput struct {
	User   uint64 `json:"user"`
	Course uint64 `json:"course"`
}

// Create handles POST /v1/subscriptions.  An omitted user means the
// caller; naming anybody else is rejected.
func (h *SubscriptionHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in subscriptionInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	sub, err := h.Subscriptions.Create(c.Request().Context(), a, in.User, in.Course)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sub)
}

// List handles GET /v1/subscriptions and returns the caller's own.
func (h *SubscriptionHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	subs, err := h.Subscriptions.List(c.Request().Context(), a)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}

// Delete handles DELETE /v1/subscriptions/:id.
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Subscriptions.Destroy(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
