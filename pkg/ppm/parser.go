package ppm

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// ParseHeader reads a PPM header from r, which must be positioned at the
// start of the image. On success r is positioned on the first pixel byte.
//
// Comments may appear between any two tokens. The last comment before the
// max color value is the capacity comment when its text is a decimal integer.
func ParseHeader(r io.ByteScanner) (*Header, error) {
	p := &headerParser{r: &countingScanner{r: r}}

	tag, err := p.tag()
	if err != nil {
		return nil, err
	}
	width, err := p.number("width")
	if err != nil {
		return nil, err
	}
	height, err := p.number("height")
	if err != nil {
		return nil, err
	}

	comment, err := p.skip()
	if err != nil {
		return nil, p.eof("max color value", err)
	}
	capacity, hasCapacity, err := parseCapacityComment(comment)
	if err != nil {
		return nil, err
	}

	maxValue, err := p.number("max color value")
	if err != nil {
		return nil, err
	}
	if maxValue > MaxColorValueLimit {
		return nil, &ppmerrors.HeaderParseError{Field: "max color value", Value: strconv.Itoa(maxValue), Reason: "exceeds 65535"}
	}

	if err := p.separator(); err != nil {
		return nil, err
	}

	return &Header{
		Type:        TypeFromTag(tag),
		Tag:         tag,
		Width:       width,
		Height:      height,
		MaxValue:    maxValue,
		Capacity:    capacity,
		HasCapacity: hasCapacity,
		length:      p.r.n,
	}, nil
}

type headerParser struct {
	r *countingScanner
}

// skip consumes whitespace and comment lines up to the next token and
// returns the text of the last comment seen, or nil if there was none.
func (p *headerParser) skip() ([]byte, error) {
	var last []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			return last, err
		}
		switch {
		case isSpace(b):
			continue
		case b == CommentMarker:
			line, err := p.commentLine()
			if err != nil {
				return nil, err
			}
			last = line
		default:
			return last, p.r.UnreadByte()
		}
	}
}

// commentLine reads the remainder of a comment, bounded by MaxCommentLineLength
func (p *headerParser) commentLine() ([]byte, error) {
	var line []byte
	for {
		b, err := p.r.ReadByte()
		if err == io.EOF || (err == nil && b == '\n') {
			return bytes.TrimRight(line, "\r"), nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading comment: %w", err)
		}
		if len(line) == MaxCommentLineLength {
			return nil, &ppmerrors.HeaderParseError{
				Field:  "comment",
				Reason: fmt.Sprintf("longer than %d bytes", MaxCommentLineLength),
			}
		}
		line = append(line, b)
	}
}

// word reads a token of at most limit bytes. The byte ending the token is
// left unread.
func (p *headerParser) word(field string, limit int) (string, error) {
	if _, err := p.skip(); err != nil {
		return "", p.eof(field, err)
	}

	var tok []byte
	for {
		b, err := p.r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", field, err)
		}
		if isSpace(b) || b == CommentMarker {
			if err := p.r.UnreadByte(); err != nil {
				return "", fmt.Errorf("reading %s: %w", field, err)
			}
			break
		}
		if len(tok) == limit {
			return "", &ppmerrors.HeaderParseError{
				Field:  field,
				Value:  string(tok),
				Reason: fmt.Sprintf("longer than %d bytes", limit),
			}
		}
		tok = append(tok, b)
	}

	if len(tok) == 0 {
		return "", &ppmerrors.HeaderParseError{Field: field, Reason: "unexpected end of header"}
	}
	return string(tok), nil
}

func (p *headerParser) tag() (string, error) {
	tag, err := p.word("type", TagLength)
	if err != nil {
		return "", err
	}
	if len(tag) != TagLength {
		return "", &ppmerrors.HeaderParseError{Field: "type", Value: tag, Reason: "must be exactly 2 characters"}
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] < 0x21 || tag[i] > 0x7e {
			return "", &ppmerrors.HeaderParseError{Field: "type", Value: tag, Reason: "must be printable ASCII"}
		}
	}
	return tag, nil
}

func (p *headerParser) number(field string) (int, error) {
	tok, err := p.word(field, MaxTokenLength)
	if err != nil {
		return 0, err
	}
	if !isDigits(tok) {
		return 0, &ppmerrors.HeaderParseError{Field: field, Value: tok, Reason: "not an unsigned decimal integer"}
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil || v > int64(maxInt) {
		return 0, &ppmerrors.HeaderParseError{Field: field, Value: tok, Reason: "out of range"}
	}
	if v == 0 {
		return 0, &ppmerrors.HeaderParseError{Field: field, Value: tok, Reason: "must be positive"}
	}
	return int(v), nil
}

// separator consumes the single whitespace byte ending the header. A header
// ending exactly at end of stream has an empty pixel body.
func (p *headerParser) separator() error {
	b, err := p.r.ReadByte()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading separator: %w", err)
	}
	if !isSpace(b) {
		return &ppmerrors.HeaderParseError{
			Field:  "separator",
			Value:  string([]byte{b}),
			Reason: "expected whitespace after max color value",
		}
	}
	return nil
}

func (p *headerParser) eof(field string, err error) error {
	if errors.Is(err, io.EOF) {
		return &ppmerrors.HeaderParseError{Field: field, Reason: "unexpected end of header"}
	}
	var perr *ppmerrors.HeaderParseError
	if errors.As(err, &perr) {
		return err
	}
	return fmt.Errorf("reading %s: %w", field, err)
}

// parseCapacityComment interprets a comment as a payload byte count. Text
// that is not a decimal integer is an ordinary comment.
func parseCapacityComment(comment []byte) (int64, bool, error) {
	text := string(bytes.TrimSpace(comment))
	if text == "" || !isDigits(text) {
		return 0, false, nil
	}
	if len(text) > MaxCommentLength {
		return 0, false, &ppmerrors.HeaderParseError{
			Field:  "capacity",
			Value:  text,
			Reason: fmt.Sprintf("longer than %d digits", MaxCommentLength),
		}
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false, &ppmerrors.HeaderParseError{Field: "capacity", Value: text, Reason: "out of range"}
	}
	return n, true, nil
}

const maxInt = int(^uint(0) >> 1)

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// countingScanner tracks how many bytes the parser has consumed
type countingScanner struct {
	r io.ByteScanner
	n int64
}

func (c *countingScanner) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

func (c *countingScanner) UnreadByte() error {
	err := c.r.UnreadByte()
	if err == nil {
		c.n--
	}
	return err
}
