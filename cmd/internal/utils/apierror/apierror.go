// Package apierror holds the structured errors returned by the service
// layer. Every value serializes to the JSON body of the HTTP response and
// knows its own status code.
package apierror

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse interface {
	error
	Code() int
}

type simpleError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *simpleError) Error() string { return e.Message }
func (e *simpleError) Code() int     { return e.StatusCode }

func NewSimple(code int, message string) ErrorResponse {
	return &simpleError{StatusCode: code, Message: message}
}

var (
	InternalServerError      = NewSimple(500, "Internal server error")
	MalformedBodyError       = NewSimple(400, "Malformed request body")
	NotFoundError            = NewSimple(404, "Resource not found")
	ForbiddenError           = NewSimple(403, "You do not own this resource")
	InvalidAuthTokenError    = NewSimple(401, "Missing or invalid auth token")
	UserAlreadyExistsError   = NewSimple(409, "A user with this email already exists")
	CredentialsMismatchError = NewSimple(401, "Email and password do not match")
	StartNotBeforeEndError   = NewSimple(400, "start_time must be before end_time")
)

func NewMissingParamError(name string) ErrorResponse {
	return NewSimple(400, fmt.Sprintf("Missing required parameter: %s", name))
}

func NewInvalidParamTypeError(name, want string) ErrorResponse {
	return NewSimple(400, fmt.Sprintf("Parameter %s must be a valid %s", name, want))
}

// validationError reports every failing field at once, not just the first.
type validationError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Fields     []string `json:"fields"`
}

func (e *validationError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Fields) }
func (e *validationError) Code() int     { return e.StatusCode }

// FromValidationError converts go-playground validation failures into a 400
// response listing each offending field.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return MalformedBodyError
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = describeFieldError(fe)
	}
	return &validationError{
		StatusCode: 400,
		Message:    "Validation failed",
		Fields:     fields,
	}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s: required", field)
	case "dateonly":
		return fmt.Sprintf("%s: not a valid YYYY-MM-DD date: %q", field, fe.Value())
	case "hhmm":
		return fmt.Sprintf("%s: not a valid HH:MM time: %q", field, fe.Value())
	case "weekdays":
		return fmt.Sprintf("%s: must be distinct weekday numbers 0 (Monday) to 6 (Sunday)", field)
	case "email":
		return fmt.Sprintf("%s: not a valid email address", field)
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

// conflictError is returned when a proposed time slot overlaps an existing
// appointment of the same owner on the same date.
type conflictError struct {
	StatusCode    int    `json:"-"`
	Message       string `json:"message"`
	ConflictingID int    `json:"conflicting_id"`
}

func (e *conflictError) Error() string { return fmt.Sprintf("%s (id=%d)", e.Message, e.ConflictingID) }
func (e *conflictError) Code() int     { return e.StatusCode }

func NewConflictError(conflictingID int) ErrorResponse {
	return &conflictError{
		StatusCode:    409,
		Message:       "Time slot overlaps an existing appointment",
		ConflictingID: conflictingID,
	}
}
