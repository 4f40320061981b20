// Package handler contains the HTTP handlers of the learning platform API.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-platform/internal/access"
	"github.com/iliyamo/learning-platform/internal/payment"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/service"
	"github.com/iliyamo/learning-platform/internal/validation"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// toHTTP maps an error returned by a service or by request binding to an
// *echo.HTTPError.  Unknown errors become a generic 500 with the cause
// kept as the internal error for logging.
func toHTTP(err error) *echo.HTTPError {
	var (
		he     *echo.HTTPError
		verr   *service.ValidationError
		denied *access.Denied
	)
	switch {
	case errors.As(err, &he):
		return he
	case errors.As(err, &verr):
		return newHTTPError(http.StatusBadRequest, errorBody{Error: verr.Message, Fields: verr.Fields}, err)
	case errors.Is(err, service.ErrValidation):
		return newHTTPError(http.StatusBadRequest, errorBody{Error: err.Error()}, err)
	case errors.As(err, &denied):
		return newHTTPError(http.StatusForbidden, errorBody{Error: denied.Reason}, err)
	case errors.Is(err, access.ErrDenied):
		return newHTTPError(http.StatusForbidden, errorBody{Error: access.ReasonNotOwner}, err)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return newHTTPError(http.StatusNotFound, errorBody{Error: "not found"}, err)
	case errors.Is(err, payment.ErrGateway):
		return newHTTPError(http.StatusBadGateway, errorBody{Error: "payment gateway unavailable"}, err)
	}
	if fields := validation.FieldErrors(err); fields != nil {
		return newHTTPError(http.StatusBadRequest, errorBody{Error: "invalid input", Fields: fields}, err)
	}
	return newHTTPError(http.StatusInternalServerError, errorBody{Error: "internal server error"}, err)
}

func newHTTPError(code int, body errorBody, cause error) *echo.HTTPError {
	return echo.NewHTTPError(code, body).SetInternal(cause)
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errorBody{Error: msg})
}

// ErrorHandler renders errors as {"error": ..., "fields": ...}.  It
// replaces echo's default handler so framework errors (404 route, 405,
// bind failures) share the same shape as domain errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := toHTTP(err)
	var body errorBody
	switch m := he.Message.(type) {
	case errorBody:
		body = m
	case string:
		body.Error = m
	default:
		body.Error = http.StatusText(he.Code)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, body)
}
