package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"younv/schemas"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages match the payload keys
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return len(schemas.NormalizePhone(fl.Field().String())) >= schemas.MIN_PHONE_DIGITS
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return IsValidDate(fl.Field().String())
	})
	return v
}

// ParseRecord converts a loosely typed record into T through its JSON form.
// A value of the wrong type is reported as a ValidationFailed error.
func ParseRecord[T any](rec any) (T, error) {
	var result T

	raw, err := json.Marshal(rec)
	if err != nil {
		return result, errors.Wrap(err, "encode record")
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return result, NewValidationFailed(map[string]string{typeErr.Field: "tipo inválido"})
		}
		return result, errors.Wrap(err, "decode record")
	}
	return result, nil
}

// ValidateRecord parses rec into T and checks its validate tags.
func ValidateRecord[T any](rec any) (T, error) {
	result, err := ParseRecord[T](rec)
	if err != nil {
		return result, err
	}

	if err := validate.Struct(result); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return result, NewValidationFailed(validationMessages(verrs))
		}
		return result, errors.Wrap(err, "validate record")
	}
	return result, nil
}

func validationMessages(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "campo obrigatório"
	case "email":
		return "e-mail inválido"
	case "min":
		return fmt.Sprintf("mínimo de %s caracteres", fe.Param())
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("valor deve ser um de: %s", fe.Param())
	case "phone":
		return fmt.Sprintf("telefone deve ter pelo menos %d dígitos", schemas.MIN_PHONE_DIGITS)
	case "isodate":
		return "data inválida"
	case "hexcolor":
		return "cor inválida"
	}
	return "valor inválido"
}
