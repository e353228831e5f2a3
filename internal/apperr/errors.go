// Package apperr is the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthentication
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error carries a Kind, a stable Code and the messages rendered to clients.
// Fields holds field-keyed messages; when empty the client sees Message as "detail".
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Field builds an error whose body is keyed by a single field.
func Field(kind Kind, code, field, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Fields: map[string][]string{field: {message}}}
}

func Validation(fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid", Message: "invalid input", Fields: fields}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "internal", Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so a sentinel with an attached cause still equals the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON payload for the error. Internal errors never leak their cause.
func (e *Error) Body() map[string]any {
	if e.Kind == KindInternal {
		return map[string]any{"detail": "Internal server error."}
	}
	if len(e.Fields) > 0 {
		body := make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			body[k] = v
		}
		return body
	}
	return map[string]any{"detail": e.Message}
}

// From normalises any error into an *Error; unknown errors become internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

var (
	ErrJobNotFound          = Field(KindValidation, "job_not_found", "job", "Job not found or inactive.")
	ErrJobInactive          = Field(KindValidation, "job_inactive", "job", "Job not found or inactive.")
	ErrDuplicateApplication = New(KindConflict, "duplicate_application", "You have already applied to this job.")
	ErrApplicationNotFound  = New(KindNotFound, "application_not_found", "Application not found.")
	ErrNotFound             = New(KindNotFound, "not_found", "Not found.")
	ErrDuplicateEmail       = Field(KindConflict, "duplicate_email", "email", "applicant with this email already exists.")
	ErrInvalidStatus        = New(KindValidation, "invalid_status", "invalid status")
	ErrInvalidCredentials   = New(KindAuthentication, "invalid_credentials", "No active account found with the given credentials")
	ErrNotAuthenticated     = New(KindAuthentication, "not_authenticated", "Authentication credentials were not provided or are invalid.")
	ErrPermissionDenied     = New(KindAuthorization, "permission_denied", "You do not have permission to perform this action.")
)

// InvalidStatus builds the field-keyed InvalidStatus error for value.
func InvalidStatus(value string) *Error {
	e := *ErrInvalidStatus
	e.Fields = map[string][]string{"status": {fmt.Sprintf("%q is not a valid choice.", value)}}
	return &e
}

// Required is the validation error for a missing field.
func Required(field string) *Error {
	return Validation(map[string][]string{field: {"This field is required."}})
}
