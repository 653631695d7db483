// Package failure carries an HTTP status and a stable reason code alongside an error
// message. Domain packages declare their failures once with New and return the same
// pointer so callers can match them with errors.Is.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// ForbiddenError is returned when the caller's role does not grant the route.
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func New(code int, reason, message string) *Failure {
	return &Failure{Code: code, Reason: reason, Message: message}
}

// BadRequest wraps a decoding or parsing error. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return BadRequestFromString(err.Error())
}

func BadRequestFromString(msg string) error {
	return &Failure{Code: http.StatusBadRequest, Message: msg}
}

func Unauthorized(msg string) error {
	return &Failure{Code: http.StatusUnauthorized, Message: msg}
}

func from(err error) (*Failure, bool) {
	var fail *Failure

	return fail, errors.As(err, &fail)
}

// GetCode returns the HTTP status of err. Anything that is not a Failure is a 500.
func GetCode(err error) int {
	if fail, ok := from(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason code of err, empty when it carries none.
func GetReason(err error) string {
	if fail, ok := from(err); ok {
		return fail.Reason
	}

	return ""
}
