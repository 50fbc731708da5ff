// Package apperror defines the failure kinds returned by the catalog and the
// sale ledger. Expected conditions (unknown barcode, not enough stock, ...)
// come back as *Error values; only storage failures wrap an underlying cause.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindDuplicateBarcode
	KindNotFound
	KindInsufficientStock
	KindInvalidInput
	KindInvalidSale
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindDuplicateBarcode:
		return "DuplicateBarcode"
	case KindNotFound:
		return "NotFound"
	case KindInsufficientStock:
		return "InsufficientStock"
	case KindInvalidInput:
		return "InvalidInput"
	case KindInvalidSale:
		return "InvalidSale"
	case KindStorageFailure:
		return "StorageFailure"
	default:
		return "Unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Available is the on-hand quantity for KindInsufficientStock.
	Available int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, apperror.ErrNotFound) works on every NotFound value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrDuplicateBarcode  = &Error{Kind: KindDuplicateBarcode}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrInvalidSale       = &Error{Kind: KindInvalidSale}
	ErrStorageFailure    = &Error{Kind: KindStorageFailure}
)

func DuplicateBarcode(barcode string) *Error {
	return &Error{Kind: KindDuplicateBarcode, Message: fmt.Sprintf("barcode %q is already used by another product", barcode)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(barcode string, available int64) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for %q, available: %d", barcode, available),
		Available: available,
	}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func InvalidSale(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidSale, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps an I/O error from the persistence layer. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Message: op, Err: err}
}

// KindOf reports the kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
