// Package filtererror defines the typed errors surfaced by the conversion
// pipeline. Row-local failures are wrapped in ConvertError and absorbed by
// the parser; the remaining types indicate a structurally broken
// configuration and propagate to the caller.
package filtererror

import (
	"errors"
	"fmt"
)

// ErrNoColumns is returned when a format descriptor defines no columns.
var ErrNoColumns = errors.New("format has no columns defined")

// FormatUndefinedError indicates a filter was asked to parse without a
// format descriptor.
type FormatUndefinedError struct {
	Filter string
}

func (e *FormatUndefinedError) Error() string {
	return fmt.Sprintf("%s: format definition not found", e.Filter)
}

// DateFormatError indicates a date string matched none of the known layout
// patterns, so the filter's date layout could not be inferred.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("date format could not be determined from %q", e.Value)
}

// ConvertError represents a single field conversion failure. It is caught
// per row: the row is dropped and counted, the batch continues.
type ConvertError struct {
	Field string
	Value string
	Err   error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("failed to convert field %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// NoDataError indicates a conversion was requested for a batch that holds
// no parseable data.
type NoDataError struct {
	Account string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data to parse for account %q", e.Account)
}

// UnknownAccountError indicates a lookup for an account key that is not in
// the registry.
type UnknownAccountError struct {
	Key string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("account %q is not registered", e.Key)
}
