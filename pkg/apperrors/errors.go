// Package apperrors defines the error kinds a report run can fail with.
// Every kind is fatal at the run boundary; the kind lets the driver and
// tests tell failures apart without matching on message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure.
type Kind string

const (
	KindInvalidArguments    Kind = "invalid_arguments"
	KindMalformedURL        Kind = "malformed_url"
	KindResourceUnreachable Kind = "resource_unreachable"
	KindFileNotFound        Kind = "file_not_found"
	KindIORead              Kind = "io_read"
	KindParseFailure        Kind = "parse_failure"
	KindNoData              Kind = "no_data"
	KindUnsupportedFormat   Kind = "unsupported_format"
)

// Error is a tagged failure with a user-facing message and an optional cause.
type Error struct {
	Kind    Kind   // failure category
	Message string // human-readable, printed by the CLI
	Cause   error  // wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error to support errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an *Error from the error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in the chain, or "" if none.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// InvalidArguments reports a missing or malformed command-line argument.
func InvalidArguments(cause error, format string, args ...any) *Error {
	return newError(KindInvalidArguments, cause, format, args...)
}

// MalformedURL reports a token in a URL list that is not a URL.
func MalformedURL(rawURL string, cause error) *Error {
	return newError(KindMalformedURL, cause, "Неверный формат URL: %s", rawURL)
}

// ResourceUnreachable reports a URL that could not be opened.
func ResourceUnreachable(rawURL string, cause error) *Error {
	return newError(KindResourceUnreachable, cause, "Ресурс по адресу: %s не доступен.", rawURL)
}

// FileNotFound reports a resolved file or directory that does not exist.
func FileNotFound(pathSpec string, cause error) *Error {
	return newError(KindFileNotFound, cause, "Файл(-ы) по пути %s не найден(-ы).", pathSpec)
}

// IORead reports a read failure in the middle of a source.
func IORead(source string, cause error) *Error {
	return newError(KindIORead, cause, "Ошибка при чтении ресурса %s: %v", source, cause)
}

// ParseFailure reports a line that matched the grammar but carried an
// unparseable date or number.
func ParseFailure(field, value string, cause error) *Error {
	return newError(KindParseFailure, cause, "Не удалось разобрать поле %s: %q", field, value)
}

// NoData reports that no record survived filtering. dump is a textual
// rendering of the filter arguments.
func NoData(dump string) *Error {
	return newError(KindNoData, nil, "Записи с параметрами: \n%s не найдены.", dump)
}

// UnsupportedFormat reports an unknown report format name.
func UnsupportedFormat(format string) *Error {
	return newError(KindUnsupportedFormat, nil, "Неподдерживаемый формат: %s", format)
}
