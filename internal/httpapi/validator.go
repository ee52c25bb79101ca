package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/onlygrow/identity/internal/errors"
	"github.com/onlygrow/identity/internal/password"
)

// registerValidations wires the custom rules into Gin's binding validator
// and makes validation errors report JSON field names. Safe to call more
// than once.
func registerValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("httpapi: unexpected binding validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= password.MinLength
	})
}

// bindJSON decodes the request body and translates validation failures into
// the service's error taxonomy.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return translateValidation(verrs[0])
		}
		return apperrors.Validation("invalid request body")
	}
	return nil
}

func translateValidation(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperrors.MissingField(field)
	case "password":
		return apperrors.Validation("password must be at least 8 characters")
	case "email":
		return apperrors.Validation("email must be a valid email address")
	default:
		return apperrors.Validation(fmt.Sprintf("%s is invalid", field))
	}
}
