package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/model"
	"github.com/iliyamo/learning-platform/internal/service"
)

// page is the paginated list envelope.
type page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

func newPage[T any](items []T, total int, p service.ListParams) page[T] {
	if items == nil {
		items = []T{}
	}
	return page[T]{Count: total, Page: p.Page, PageSize: p.PageSize, Results: items}
}

// actor returns the authenticated actor or a 401.
func actor(c echo.Context) (access.Actor, error) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, errorBody{Error: "authentication required"})
	}
	return a, nil
}

// parseID reads the :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid id")
	}
	return id, nil
}

// listParams reads page, page_size, ordering, course and payment_method
// from the query string.
func listParams(c echo.Context) (service.ListParams, error) {
	var p service.ListParams
	var err error
	if p.Page, err = queryInt(c, "page"); err != nil {
		return p, err
	}
	if p.PageSize, err = queryInt(c, "page_size"); err != nil {
		return p, err
	}
	if v := c.QueryParam("course"); v != "" {
		if p.CourseID, err = strconv.ParseUint(v, 10, 64); err != nil {
			return p, badRequest("course must be a positive integer")
		}
	}
	if v := c.QueryParam("payment_method"); v != "" {
		m, ok := model.ParsePaymentMethod(v)
		if !ok {
			return p, badRequest("payment_method must be one of: cash card")
		}
		p.Method = m
	}
	p.OrderBy = strings.TrimSpace(c.QueryParam("ordering"))
	return p.Normalize(), nil
}

func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return n, nil
}

// bindValid binds the request body into dst and runs the validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest("invalid request body")
	}
	return c.Validate(dst)
}

// methodField accepts a payment method as a JSON string ("card", "2") or
// as a bare legacy number (2).
type methodField string

func (m *methodField) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = methodField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("payment_method: %w", err)
	}
	*m = methodField(n.String())
	return nil
}
