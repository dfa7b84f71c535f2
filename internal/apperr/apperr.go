// Package apperr defines the error kinds surfaced at the command boundary.
//
// Every failure that leaves the core wraps exactly one kind sentinel so the
// host can classify it with errors.Is while still displaying Error() as-is.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels.
var (
	ErrIO             = errors.New("io error")
	ErrSerialization  = errors.New("serialization error")
	ErrNetwork        = errors.New("network error")
	ErrUser           = errors.New("user error")
	ErrStore          = errors.New("store error")
	ErrChannel        = errors.New("channel error")
	ErrTimestampParse = errors.New("timestamp parse error")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrIO, "io_error"},
	{ErrSerialization, "serialization_error"},
	{ErrNetwork, "network_error"},
	{ErrUser, "user_error"},
	{ErrStore, "store_error"},
	{ErrChannel, "channel_error"},
	{ErrTimestampParse, "timestamp_parse_error"},
}

// Error is an operation-scoped error carrying its kind and cause.
type Error struct {
	Op    string
	Kind  error
	Cause error
}

func (e *Error) Error() string {
	switch {
	case e.Cause == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case errors.Is(e.Cause, e.Kind):
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Cause)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// WrapKind annotates err with op and kind. A nil err yields nil.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Cause: err}
}

// NewKind creates an error of kind for op without an underlying cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// KindName returns the boundary code for err, or "internal_error" if err
// carries no known kind. The outermost *Error decides when errors are nested.
func KindName(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if name, ok := nameOf(e.Kind); ok {
			return name
		}
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal_error"
}

func nameOf(kind error) (string, bool) {
	for _, k := range kinds {
		if errors.Is(kind, k.err) {
			return k.name, true
		}
	}
	return "", false
}
