// Package errs defines the errors returned by the wire packages.
//
// Every failure is reported either as one of the sentinel errors below or as
// a typed error that unwraps to one of them, so callers can always match with
// errors.Is and extract details with errors.As:
//
//	var missing *errs.MissingFieldError
//	if errors.As(err, &missing) {
//	    log.Printf("document has no %q field", missing.Field)
//	}
//	if errors.Is(err, errs.ErrMissingField) { ... }
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming reports a malformed document header or a length that runs past the written data.
	ErrFraming = errors.New("wire: malformed document frame")
	// ErrMissingField reports a field the reader asked for that is not present in the enclosing object.
	ErrMissingField = errors.New("wire: missing field")
	// ErrUnresolvedAlias reports a type alias that was never registered.
	ErrUnresolvedAlias = errors.New("wire: unresolved type alias")
	// ErrAliasConflict reports an attempt to register two different types under one alias.
	ErrAliasConflict = errors.New("wire: alias conflict")
	// ErrInvalidAlias reports an empty alias or a type that cannot be registered.
	ErrInvalidAlias = errors.New("wire: invalid alias")
	// ErrTypeMismatch reports a value read as a type other than the one written.
	ErrTypeMismatch = errors.New("wire: type mismatch")
	// ErrInvalidText reports a text value that is not valid UTF-8.
	ErrInvalidText = errors.New("wire: text is not valid UTF-8")
	// ErrMalformedPayload reports a document payload the codec cannot parse.
	ErrMalformedPayload = errors.New("wire: malformed payload")
	// ErrBufferUnderflow reports a read past the readable region of a buffer.
	ErrBufferUnderflow = errors.New("wire: buffer underflow")
	// ErrDocumentTooLarge reports a document whose payload exceeds the configured maximum.
	ErrDocumentTooLarge = errors.New("wire: document too large")
	// ErrUnsupportedWireType reports an unknown wire type.
	ErrUnsupportedWireType = errors.New("wire: unsupported wire type")
	// ErrInvalidHeaderSize reports a document header slice of the wrong size.
	ErrInvalidHeaderSize = errors.New("wire: invalid document header size")
	// ErrOffsetOutOfRange reports an absolute buffer offset outside the written region.
	ErrOffsetOutOfRange = errors.New("wire: offset out of range")
)

// FramingError describes a document header that cannot be trusted.
//
// Reading must not continue past Offset once a FramingError has been returned.
type FramingError struct {
	Offset    int
	Length    int
	Available int
	Reason    string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("wire: malformed document frame at offset %d (length %d, available %d): %s",
		e.Offset, e.Length, e.Available, e.Reason)
}

func (e *FramingError) Unwrap() error { return ErrFraming }

// MissingFieldError names a field that a keyed reader could not locate.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("wire: missing field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UnresolvedAliasError names an alias that has no registered type.
type UnresolvedAliasError struct {
	Alias string
}

func (e *UnresolvedAliasError) Error() string {
	return fmt.Sprintf("wire: unresolved type alias %q", e.Alias)
}

func (e *UnresolvedAliasError) Unwrap() error { return ErrUnresolvedAlias }

// AliasConflictError reports that Alias is already owned by Existing and
// cannot be given to Requested.
type AliasConflictError struct {
	Alias     string
	Existing  string
	Requested string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("wire: alias %q already registered for %s, cannot register %s",
		e.Alias, e.Existing, e.Requested)
}

func (e *AliasConflictError) Unwrap() error { return ErrAliasConflict }

// TypeMismatchError reports that Field holds a value of kind Actual while
// the reader asked for Expected.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("wire: type mismatch: expected %s, got %s", e.Expected, e.Actual)
	}

	return fmt.Sprintf("wire: type mismatch for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
