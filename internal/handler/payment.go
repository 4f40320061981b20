package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service"
)

// PaymentHandler serves /v1/payments.
type PaymentHandler struct {
	Payments *service.PaymentService
}

// paymentInput ignores any client-supplied user; the payer is always the
// caller.
type paymentInput struct {
	Course        uint64      `json:"course"`
	PaymentMethod methodField `json:"payment_method"`
}

// List handles GET /v1/payments with ?course=, ?payment_method= and
// ?ordering=payment_date|-payment_date.
func (h *PaymentHandler) List(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	p, err := listParams(c)
	if err != nil {
		return err
	}
	items, total, err := h.Payments.List(c.Request().Context(), a, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPage(items, total, p))
}

// Create handles POST /v1/payments.  Card payments answer with the
// checkout_url of the opened session.
func (h *PaymentHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var in paymentInput
	if err := bindValid(c, &in); err != nil {
		return err
	}
	// unknown methods are left empty and rejected by the service
	method, _ := model.ParsePaymentMethod(string(in.PaymentMethod))
	p, err := h.Payments.Create(c.Request().Context(), a, service.PaymentInput{CourseID: in.Course, Method: method})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/payments/:id.  Reading a pending card payment
// reconciles it with the gateway.
func (h *PaymentHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	p, err := h.Payments.Retrieve(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/payments/:id.
func (h *PaymentHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Payments.Destroy(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
