package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"campus/shared/failure"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1024 * 1024

var validate = newValidate()

// enumerable is implemented by closed string sets such as room types.
type enumerable interface {
	IsValid() bool
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	custom := map[string]val.Func{
		"enum":        isValidEnum,
		"mimetypes":   hasMimetype,
		"maxfilesize": withinFileSize,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

func isValidEnum(field val.FieldLevel) bool {
	if !field.Field().CanInterface() {
		return false
	}

	value, ok := field.Field().Interface().(enumerable)

	return ok && value.IsValid()
}

// hasMimetype accepts a space separated list of media types, ignoring parameters.
func hasMimetype(field val.FieldLevel) bool {
	contentType, _, err := mime.ParseMediaType(field.Field().String())
	if err != nil {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

// withinFileSize compares a byte count against a limit in megabytes.
func withinFileSize(field val.FieldLevel) bool {
	limitMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(field.Field().Int()) <= limitMB*bytesPerMB
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
