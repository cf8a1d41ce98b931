package ppm

import (
	"errors"
	"math"
	"testing"

	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// TestCanEmbedBoundary tests the strict capacity inequality
func TestCanEmbedBoundary(t *testing.T) {
	testCases := []struct {
		name    string
		carrier int64
		payload int64
		want    bool
	}{
		{"exactly four bytes per payload byte", 40, 10, false},
		{"one byte of slack", 41, 10, true},
		{"one byte short", 39, 10, false},
		{"empty payload", 1, 0, true},
		{"empty carrier", 0, 0, false},
		{"single byte", 5, 1, true},
		{"single byte no slack", 4, 1, false},
		{"overflowing payload", math.MaxInt64, math.MaxInt64/4 + 1, false},
		{"negative payload", 10, -1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanEmbed(tc.carrier, tc.payload); got != tc.want {
				t.Errorf("CanEmbed(%d, %d) = %v, want %v", tc.carrier, tc.payload, got, tc.want)
			}
		})
	}
}

// TestCheckCapacity tests the error carried by a failed capacity check
func TestCheckCapacity(t *testing.T) {
	if err := CheckCapacity(41, 10); err != nil {
		t.Fatalf("CheckCapacity(41, 10) = %v, want nil", err)
	}

	err := CheckCapacity(40, 10)
	if !errors.Is(err, ppmerrors.ErrCapacityExceeded) {
		t.Fatalf("CheckCapacity(40, 10) = %v, want ErrCapacityExceeded", err)
	}
	var cerr *ppmerrors.CapacityExceededError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %v is not a *CapacityExceededError", err)
	}
	if cerr.PayloadBytes != 10 || cerr.CarrierBytes != 40 {
		t.Errorf("error carries %d/%d, want 10/40", cerr.PayloadBytes, cerr.CarrierBytes)
	}
}

// TestMaxPayload tests that MaxPayload is the largest size CanEmbed accepts
func TestMaxPayload(t *testing.T) {
	for carrier := int64(0); carrier < 64; carrier++ {
		max := MaxPayload(carrier)
		if max > 0 && !CanEmbed(carrier, max) {
			t.Errorf("CanEmbed(%d, MaxPayload=%d) = false", carrier, max)
		}
		if CanEmbed(carrier, max+1) {
			t.Errorf("CanEmbed(%d, %d) = true, MaxPayload returned %d", carrier, max+1, max)
		}
		if max > 0 && RequiredCarrierBytes(max) > carrier {
			t.Errorf("RequiredCarrierBytes(%d) = %d exceeds carrier %d", max, RequiredCarrierBytes(max), carrier)
		}
	}
}
