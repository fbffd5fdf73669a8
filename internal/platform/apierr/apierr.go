package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidLocation     = "INVALID_LOCATION"
	CodeUpstreamFetchFailed = "UPSTREAM_FETCH_FAILED"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeInventoryNotFound   = "INVENTORY_NOT_FOUND"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeInternal            = "INTERNAL_ERROR"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string, err error) *Error { return New(http.StatusBadRequest, code, err) }
func NotFound(code string, err error) *Error   { return New(http.StatusNotFound, code, err) }

// From finds the first *Error in err's chain. Anything else is reported as a 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}
