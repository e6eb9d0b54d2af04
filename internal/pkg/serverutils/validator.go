package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest returns validator.ValidationErrors for bad input, nil otherwise.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}

// ValidationMessages flattens validator errors into field -> message.
func ValidationMessages(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	messages := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages[field] = fmt.Sprintf("%s is required", field)
		case "oneof":
			messages[field] = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
		case "uuid", "uuid4":
			messages[field] = fmt.Sprintf("%s must be a valid uuid", field)
		case "max":
			messages[field] = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		default:
			messages[field] = fmt.Sprintf("%s failed on %s", field, fe.Tag())
		}
	}
	return messages
}
