package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewNoEligibleAssignee reports that auto-assignment found nobody to pick.
func NewNoEligibleAssignee(details map[string]any) error {
	return NewDomainError("NO_ELIGIBLE_ASSIGNEE", "no eligible assignee", http.StatusConflict, details)
}

// NewBulkPartialFailure reports a batch where some items failed. failures maps
// item id to its error message.
func NewBulkPartialFailure(succeeded int, failures map[string]string) error {
	failed := make(map[string]any, len(failures))
	for id, msg := range failures {
		failed[id] = msg
	}
	return NewDomainError("BULK_PARTIAL_FAILURE",
		fmt.Sprintf("%d item(s) failed", len(failures)),
		http.StatusMultiStatus,
		map[string]any{"succeeded": succeeded, "failed": failed})
}

// NewBulkFailure reports a batch where no item succeeded. When every item
// failed with the same code the batch carries that code and status; mixed
// failures are reported as BULK_FAILED.
func NewBulkFailure(failures map[string]error) error {
	failed := make(map[string]any, len(failures))
	code, status := "", 0
	mixed := false
	for id, err := range failures {
		de := ToDomainError(err)
		failed[id] = de.Message
		switch {
		case code == "":
			code, status = de.Code, de.HTTPStatus
		case code != de.Code:
			mixed = true
		}
	}
	if mixed || code == "" {
		code, status = "BULK_FAILED", http.StatusUnprocessableEntity
	}
	return NewDomainError(code,
		fmt.Sprintf("all %d item(s) failed", len(failures)),
		status,
		map[string]any{"succeeded": 0, "failed": failed})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{
			Code:       "NOT_FOUND",
			Message:    "resource not found",
			HTTPStatus: http.StatusNotFound,
			Details:    map[string]any{},
			Err:        err,
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
