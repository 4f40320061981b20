// Package validation wraps go-playground/validator for request payloads
// and registers the rules specific to course content.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// VideoHosts lists the hosts a lesson video link may point at.
var VideoHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// Validator wraps the go-playground validator.  It satisfies
// echo.Validator so handlers can call c.Validate.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the custom rules registered.  Field names in
// errors use the json tag so messages match the request body.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// registration only fails for an empty tag or nil func
	// an empty link means "no link" and is accepted
	_ = v.RegisterValidation("videolink", func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		return raw == "" || IsVideoLink(raw)
	})
	return &Validator{validate: v}
}

// Validate validates a struct using struct tags.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// IsVideoLink reports whether raw is an http(s) URL on an allow-listed
// video host.
func IsVideoLink(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return VideoHosts[strings.ToLower(u.Hostname())]
}

// FieldErrors converts validation errors to a field → message map.  It
// returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, e.Param())
		case "videolink":
			out[field] = "link must be a youtube.com or youtu.be video URL"
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
