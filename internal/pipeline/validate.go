package pipeline

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	apperrors "event-booking/pkg/app_errors"

	"github.com/go-playground/validator/v10"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// 錯誤回報使用 json 欄位名稱
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

// firstViolation maps the first failing struct field to an app error.
func firstViolation(err error) error {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return err
	}
	fe := violations[0]
	switch fe.Tag() {
	case "email_shape":
		return apperrors.InvalidEmail(fe.Value().(string))
	default:
		return apperrors.Required(fe.Field())
	}
}
