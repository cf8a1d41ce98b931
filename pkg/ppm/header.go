// Package ppm implements the PPM header codec and the capacity model used to
// hide payloads in the low-order bits of pixel data.
package ppm

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// Type is the pixel encoding announced by the header's type tag
type Type int

const (
	TypeUnknown Type = iota
	TypeBinary
	TypeASCII
)

func (t Type) String() string {
	switch t {
	case TypeBinary:
		return "binary"
	case TypeASCII:
		return "ASCII"
	default:
		return "unknown"
	}
}

// Tag returns the canonical type tag, or "" for TypeUnknown
func (t Type) Tag() string {
	switch t {
	case TypeBinary:
		return TagBinary
	case TypeASCII:
		return TagASCII
	default:
		return ""
	}
}

// TypeFromTag maps a type tag to its Type. Unrecognized tags are TypeUnknown.
func TypeFromTag(tag string) Type {
	switch tag {
	case TagBinary:
		return TypeBinary
	case TagASCII:
		return TypeASCII
	default:
		return TypeUnknown
	}
}

// Header is a parsed PPM header. It is treated as immutable once built:
// derive modified copies with WithCapacity.
type Header struct {
	Type     Type
	Tag      string // raw two-character tag as read, kept for unknown types
	Width    int
	Height   int
	MaxValue int

	// Capacity is the payload byte count recorded by a previous hide.
	// It is only meaningful when HasCapacity is set.
	Capacity    int64
	HasCapacity bool

	length int64
}

// NewHeader builds a header for a known type without a capacity comment
func NewHeader(t Type, width, height, maxValue int) *Header {
	return &Header{
		Type:     t,
		Tag:      t.Tag(),
		Width:    width,
		Height:   height,
		MaxValue: maxValue,
	}
}

// WithCapacity returns a copy of h recording n hidden payload bytes
func (h *Header) WithCapacity(n int64) *Header {
	c := *h
	c.Capacity = n
	c.HasCapacity = true
	c.length = 0
	return &c
}

// PayloadLength returns the recorded payload length, if any
func (h *Header) PayloadLength() (int64, bool) {
	return h.Capacity, h.HasCapacity
}

// Len returns the number of bytes the header occupied in the stream it was
// parsed from, separator included. Pixel data starts at this offset.
func (h *Header) Len() int64 {
	if h.length == 0 {
		return int64(len(h.bytes()))
	}
	return h.length
}

// BytesPerSample is 1 for max values below 256 and 2 otherwise
func (h *Header) BytesPerSample() int {
	if h.MaxValue < 256 {
		return 1
	}
	return 2
}

// PixelDataSize is the byte count of a binary pixel body: one sample per
// RGB channel for every pixel.
func (h *Header) PixelDataSize() int64 {
	return int64(h.Width) * int64(h.Height) * 3 * int64(h.BytesPerSample())
}

// Validate checks the positive-dimension invariants
func (h *Header) Validate() error {
	if len(h.tag()) != TagLength {
		return &ppmerrors.HeaderParseError{Field: "type", Value: h.tag(), Reason: "must be exactly 2 characters"}
	}
	if h.Width <= 0 {
		return &ppmerrors.HeaderParseError{Field: "width", Value: strconv.Itoa(h.Width), Reason: "must be positive"}
	}
	if h.Height <= 0 {
		return &ppmerrors.HeaderParseError{Field: "height", Value: strconv.Itoa(h.Height), Reason: "must be positive"}
	}
	if h.MaxValue <= 0 || h.MaxValue > MaxColorValueLimit {
		return &ppmerrors.HeaderParseError{Field: "max color value", Value: strconv.Itoa(h.MaxValue), Reason: "must be between 1 and 65535"}
	}
	if h.HasCapacity && h.Capacity < 0 {
		return &ppmerrors.HeaderParseError{Field: "capacity", Value: strconv.FormatInt(h.Capacity, 10), Reason: "must not be negative"}
	}
	return nil
}

// WriteTo serializes the header followed by exactly one separator byte:
//
//	<tag>\n<width> <height>\n[#<capacity>\n]<max><separator>
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	n, err := w.Write(h.bytes())
	return int64(n), err
}

func (h *Header) bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n%d %d\n", h.tag(), h.Width, h.Height)
	if h.HasCapacity {
		fmt.Fprintf(&buf, "%c%d\n", CommentMarker, h.Capacity)
	}
	fmt.Fprintf(&buf, "%d%c", h.MaxValue, Separator)
	return buf.Bytes()
}

func (h *Header) tag() string {
	if h.Tag != "" {
		return h.Tag
	}
	return h.Type.Tag()
}
