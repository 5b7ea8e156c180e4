// internal/apperrors/errors.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/javajoker/brewhouse-backend/internal/i18n"
)

// Kind classifies a failure. It doubles as the error code sent to clients.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindInvalidOperation       Kind = "INVALID_OPERATION"
	KindInsufficientStock      Kind = "INSUFFICIENT_STOCK"
	KindDataIntegrity          Kind = "DATA_INTEGRITY"
	KindConflict               Kind = "CONFLICT"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindTransient              Kind = "TRANSIENT"
	KindValidation             Kind = "VALIDATION_ERROR"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindForbidden              Kind = "FORBIDDEN"
)

// Error is a domain failure that is safe to report to the caller.
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error
	// Key is the message catalog entry shown to clients instead of Message.
	Key string
	// Resource names what was missing for not-found errors.
	Resource string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can compare against the
// sentinels below regardless of message or details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidOperation       = &Error{Kind: KindInvalidOperation, Message: "invalid operation"}
	ErrInsufficientStock      = &Error{Kind: KindInsufficientStock, Message: "insufficient stock"}
	ErrDataIntegrity          = &Error{Kind: KindDataIntegrity, Message: "data integrity fault"}
	ErrConflict               = &Error{Kind: KindConflict, Message: "conflict"}
	ErrConcurrentModification = &Error{Kind: KindConcurrentModification, Message: "concurrent modification"}
	ErrTransient              = &Error{Kind: KindTransient, Message: "transient failure"}
	ErrValidation             = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrUnauthorized           = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden              = &Error{Kind: KindForbidden, Message: "forbidden"}
)

// WithKey sets the catalog key clients see the error under.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(resource string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  resource + " not found",
		Key:      resource + ".not_found",
		Resource: resource,
	}
}

func ProductNotFound(productID fmt.Stringer) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  "product not found",
		Details:  map[string]interface{}{"product_id": productID.String()},
		Key:      i18n.KeyProductNotFound,
		Resource: "product",
	}
}

func InvalidOperation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(available, requested int) *Error {
	key := i18n.KeyInventoryInsufficient
	if available == 0 {
		key = i18n.KeyProductOutOfStock
	}
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock: %d available, %d requested", available, requested),
		Details: map[string]interface{}{"available": available, "requested": requested},
		Key:     key,
	}
}

func DataIntegrity(message string, details interface{}) *Error {
	return &Error{Kind: KindDataIntegrity, Message: message, Details: details}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func ConcurrentModification(message string) *Error {
	return &Error{Kind: KindConcurrentModification, Message: message}
}

func Transient(message string, err error) *Error {
	return &Error{Kind: KindTransient, Message: message, Err: err}
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code used at the HTTP boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidOperation, KindValidation:
		return http.StatusBadRequest
	case KindInsufficientStock, KindConflict, KindConcurrentModification, KindDataIntegrity:
		return http.StatusConflict
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
