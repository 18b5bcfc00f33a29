package apimodels

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct проверка по тегам validate, ошибки собираются в одно сообщение
func ValidateStruct(data any) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("поле %v обязательно", fe.Field())
	case "min", "gte", "gt":
		return fmt.Sprintf("поле %v должно быть не меньше %v", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("поле %v должно быть не больше %v", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("поле %v должно быть одним из: %v", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("поле %v заполнено некорректно", fe.Field())
	}
}
