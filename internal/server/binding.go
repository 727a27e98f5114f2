package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// Report request field names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("asof", func(fl validator.FieldLevel) bool {
		_, err := parseAsOf(fl.Field().String())
		return err == nil
	})
}

type limitQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q limitQuery) limitOr(fallback int) int {
	if q.Limit == nil {
		return fallback
	}
	return *q.Limit
}

// bindJSONBody binds an optional JSON body; an empty body leaves obj untouched.
func bindJSONBody(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return bindError(err)
	}
	return nil
}

func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return bindError(err)
	}
	return nil
}

func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return newValidationError(fe.Field(), "invalid_"+fe.Field(), validationMessage(fe))
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return newValidationError(strings.Trim(field, `"`), "unknown_field", "unknown field")
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return newValidationError(typeErr.Field, "invalid_type", "invalid value type")
	}
	return invalidRequestError()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "asof":
		return "as_of must be an RFC3339 timestamp or a date"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
