package permissions

import (
	"os"
	"testing"
)

func TestParseOctalString(t *testing.T) {
	testCases := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"", DefaultFilePerms, false},
		{"644", 0o644, false},
		{"0644", 0o644, false},
		{"0o600", 0o600, false},
		{"0", 0, true},
		{"000", 0, true},
		{"777", 0o777, false},
		{"1777", 0, true},
		{"89", 0, true},
		{"rw-", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseOctalString(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseOctalString(%q) = %o, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOctalString(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseOctalString(%q) = %o, want %o", tc.input, got, tc.want)
			}
		})
	}
}

func TestModeFlag(t *testing.T) {
	m := NewMode()
	if m.String() != "0600" {
		t.Errorf("default mode = %s, want 0600", m)
	}
	if err := m.Set("0755"); err != nil {
		t.Fatal(err)
	}
	if m.FileMode() != os.FileMode(0o755) {
		t.Errorf("FileMode() = %v, want 0755", m.FileMode())
	}
	if err := m.Set("0"); err == nil {
		t.Error("Set(\"0\") succeeded")
	}
	if err := m.Set("abc"); err == nil {
		t.Error("Set(\"abc\") succeeded")
	}
	if m.FileMode() != os.FileMode(0o755) {
		t.Errorf("failed Set changed the mode to %v", m.FileMode())
	}
	if m.Type() != "octal" {
		t.Errorf("Type() = %s", m.Type())
	}
}
