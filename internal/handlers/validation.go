package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// newValidator returns a validator that reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return usernamePattern.MatchString(s) && !strings.EqualFold(s, models.ReservedUsername)
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only; \"me\" is reserved."
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "hexcolor":
		return "Enter a valid hex color such as #49B64E."
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
}

// validateStruct runs v over s and converts failures into a ValidationError.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	verr := &services.ValidationError{}
	for _, e := range validationErrors {
		verr.Add(e.Field(), fieldMessage(e))
	}
	return verr
}

// parseBody decodes the request body into out and validates it.
func parseBody(c bodyParser, v *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return services.NewValidationError(services.NonFieldErrors, "Invalid request body: "+err.Error())
	}
	return validateStruct(v, out)
}

type bodyParser interface {
	BodyParser(out interface{}) error
}
