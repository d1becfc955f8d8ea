package httperr

import (
	"errors"
	"net/http"
)

// BusinessError is a rule violation that should reach the client as a 4xx.
// Status defaults to 400 when zero.
type BusinessError struct {
	Code    string
	Message string
	Status  int
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// ErrRule is a 400 business error carrying a human readable message.
func ErrRule(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func ErrForbidden(code, message string) error {
	return BusinessError{Code: code, Message: message, Status: http.StatusForbidden}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Code: code, Message: message, Status: http.StatusNotFound}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
