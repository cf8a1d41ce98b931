package steg

import (
	"strings"
	"testing"
)

func TestChecksumRoundTrip(t *testing.T) {
	data := []byte("payload bytes")

	for _, algo := range []ChecksumAlgorithm{ChecksumSHA256, ChecksumSHA512, ChecksumAdler32, ChecksumBlake2b} {
		t.Run(algo.String(), func(t *testing.T) {
			sum := CalculateChecksum(data, algo)
			if !strings.HasPrefix(sum, algo.String()+":") {
				t.Fatalf("checksum %q lacks the %s prefix", sum, algo)
			}

			ok, err := VerifyChecksum(data, sum)
			if err != nil || !ok {
				t.Errorf("VerifyChecksum(%q) = %v, %v", sum, ok, err)
			}
			ok, err = VerifyChecksum([]byte("tampered"), sum)
			if err != nil || ok {
				t.Errorf("VerifyChecksum on other data = %v, %v, want false", ok, err)
			}
			if ok, _ := VerifyChecksum(data, strings.ToUpper(sum[len(algo.String())+1:])); algo != ChecksumBlake2b && !ok {
				t.Errorf("unprefixed upper-case checksum did not verify")
			}
		})
	}
}

func TestParseChecksum(t *testing.T) {
	testCases := []struct {
		input   string
		algo    ChecksumAlgorithm
		value   string
		wantErr bool
	}{
		{"sha256:ABCD", ChecksumSHA256, "abcd", false},
		{"blake2b:00ff", ChecksumBlake2b, "00ff", false},
		{"deadbeef", ChecksumAdler32, "deadbeef", false},
		{strings.Repeat("a", 128), ChecksumSHA512, strings.Repeat("a", 128), false},
		{strings.Repeat("b", 64), ChecksumSHA256, strings.Repeat("b", 64), false},
		{"md5:abcd", 0, "", true},
		{"sha256:", 0, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			algo, value, err := ParseChecksum(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseChecksum(%q) succeeded, want error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChecksum(%q) failed: %v", tc.input, err)
			}
			if algo != tc.algo || value != tc.value {
				t.Errorf("ParseChecksum(%q) = %s %q, want %s %q", tc.input, algo, value, tc.algo, tc.value)
			}
		})
	}
}
