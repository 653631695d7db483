package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":    "{field} is required",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"min":         "{field} must be at least {param}",
	"max":         "{field} must be at most {param}",
	"oneof":       "{field} must be one of {param}",
	"email":       "{field} must be a valid email address",
	"enum":        "{field} has an unsupported value",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message renders one sentence per failed field, joined with "; ".
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	sentences := make([]string, 0, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		template, ok := templates[fieldErr.Tag()]
		if !ok {
			sentences = append(sentences, fieldErr.Field()+" is invalid")

			continue
		}

		sentences = append(sentences, strings.NewReplacer(
			"{field}", fieldErr.Field(),
			"{param}", fieldErr.Param(),
		).Replace(template))
	}

	return strings.Join(sentences, "; ")
}
