// Package permissions parses octal file modes for output files
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// DefaultFilePerms keeps revealed payloads and stego images private to the owner
const DefaultFilePerms = 0o600

// ParseOctalString parses an octal permission string into a uint16
// Handles formats like "644", "0644", "0o644"
func ParseOctalString(s string) (uint16, error) {
	if s == "" {
		return DefaultFilePerms, nil
	}

	trimmed := strings.TrimPrefix(s, "0o")
	if trimmed != "0" {
		trimmed = strings.TrimPrefix(trimmed, "0")
	}

	val, err := strconv.ParseUint(trimmed, 8, 16)
	if err != nil {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val > 0o777 {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q: only permission bits are allowed", s)
	}
	if val == 0 {
		return DefaultFilePerms, fmt.Errorf("invalid permission string %q: the owner could not read the file", s)
	}

	return uint16(val), nil
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm uint16) string {
	return fmt.Sprintf("0%o", perm)
}

// Mode is a pflag.Value holding an output file mode
type Mode uint16

var _ pflag.Value = (*Mode)(nil)

// NewMode returns a Mode initialized to DefaultFilePerms
func NewMode() *Mode {
	m := Mode(DefaultFilePerms)
	return &m
}

func (m *Mode) String() string {
	return FormatOctal(uint16(*m))
}

func (m *Mode) Set(s string) error {
	v, err := ParseOctalString(s)
	if err != nil {
		return err
	}
	*m = Mode(v)
	return nil
}

func (m *Mode) Type() string {
	return "octal"
}

// FileMode converts to os.FileMode
func (m *Mode) FileMode() os.FileMode {
	return os.FileMode(*m)
}
