package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeTransferFailed    = "TRANSFER_FAILED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeNotFound          = "RESOURCE_NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Wire markers clients match on.
const (
	MsgInvalidStore      = "invalid store"
	MsgInvalidProduct    = "invalid product"
	MsgInvalidQuantity   = "invalid quantity"
	MsgInsufficientStock = "insufficient stock"
	MsgVersionConflict   = "version conflict"
	MsgTransferFailed    = "transfer failed"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code, so sentinels
// below can be matched with errors.Is regardless of message or details.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

func NewAppError(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Sentinels for errors.Is. Never mutate these; use the constructors.
var (
	ErrInvalidReference  = NewAppError(CodeInvalidReference, "invalid reference", http.StatusBadRequest)
	ErrInvalidQuantity   = NewAppError(CodeInvalidQuantity, MsgInvalidQuantity, http.StatusBadRequest)
	ErrInsufficientStock = NewAppError(CodeInsufficientStock, MsgInsufficientStock, http.StatusBadRequest)
	ErrVersionConflict   = NewAppError(CodeVersionConflict, MsgVersionConflict, http.StatusConflict)
	ErrValidation        = NewAppError(CodeValidationError, "validation failed", http.StatusBadRequest)
	ErrNotFound          = NewAppError(CodeNotFound, "not found", http.StatusNotFound)
)

func InvalidStore() *AppError {
	return NewAppError(CodeInvalidReference, MsgInvalidStore, http.StatusBadRequest)
}

func InvalidProduct() *AppError {
	return NewAppError(CodeInvalidReference, MsgInvalidProduct, http.StatusBadRequest)
}

func InvalidQuantity() *AppError {
	return NewAppError(CodeInvalidQuantity, MsgInvalidQuantity, http.StatusBadRequest)
}

func InsufficientStock() *AppError {
	return NewAppError(CodeInsufficientStock, MsgInsufficientStock, http.StatusBadRequest)
}

func VersionConflict() *AppError {
	return NewAppError(CodeVersionConflict, MsgVersionConflict, http.StatusConflict)
}

// TransferFailed reports a transfer whose inbound leg failed and whose
// outbound leg was compensated, so no partial state remains.
func TransferFailed(cause error) *AppError {
	return NewAppError(CodeTransferFailed, MsgTransferFailed, http.StatusBadRequest).Wrap(cause)
}

func Validation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

func NotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func Internal(err error) *AppError {
	return NewAppError(CodeInternalError, "internal server error", http.StatusInternalServerError).Wrap(err)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError returns err as an AppError, classifying anything unknown as internal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// IsBusiness reports whether err is a terminal caller error that retrying
// cannot fix.
func IsBusiness(err error) bool {
	appErr, ok := AsAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case CodeInvalidReference, CodeInvalidQuantity, CodeInsufficientStock, CodeValidationError, CodeNotFound:
		return true
	}
	return false
}
