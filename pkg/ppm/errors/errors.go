package errors

import (
	"errors"
	"fmt"
)

var (
	// Header errors 🧾
	ErrHeaderParse        = errors.New("❌ invalid PPM header")
	ErrUnsupportedType    = errors.New("❌ unsupported PPM type")
	ErrTruncatedPixelData = errors.New("❌ truncated pixel data")

	// Embedding errors 🧩
	ErrCapacityExceeded        = errors.New("❌ payload exceeds carrier capacity")
	ErrMissingCapacityMetadata = errors.New("❌ carrier has no embedded payload length")
	ErrPayloadTruncated        = errors.New("❌ payload ended before its declared size")

	// Output errors 💾
	ErrChecksumMismatch      = errors.New("❌ checksum mismatch")
	ErrInsufficientDiskSpace = errors.New("❌ insufficient disk space")
	ErrOutputExists          = errors.New("❌ output file already exists")
)

// HeaderParseError names the header field that could not be read.
type HeaderParseError struct {
	Field  string
	Value  string
	Reason string
}

func (e *HeaderParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%v: %s %q: %s", ErrHeaderParse, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrHeaderParse, e.Field, e.Reason)
}

func (e *HeaderParseError) Unwrap() error {
	return ErrHeaderParse
}

// CapacityExceededError carries both sides of a failed capacity check.
type CapacityExceededError struct {
	PayloadBytes int64
	CarrierBytes int64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%v: payload of %d bytes needs more than %d carrier bytes, carrier has %d",
		ErrCapacityExceeded, e.PayloadBytes, e.PayloadBytes*4, e.CarrierBytes)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// UnsupportedTypeError is returned when an operation needs pixel semantics
// the type tag does not provide.
type UnsupportedTypeError struct {
	Tag       string
	Operation string
	Reason    string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s cannot use type %q: %s", ErrUnsupportedType, e.Operation, e.Tag, e.Reason)
	}
	return fmt.Sprintf("%v: %s cannot use type %q", ErrUnsupportedType, e.Operation, e.Tag)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return ErrUnsupportedType
}
