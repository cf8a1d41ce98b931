package ppm

import (
	"math"

	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// CanEmbed reports whether payloadBytes fit in carrierBytes of pixel data.
// The comparison is strict: at least one carrier byte is always left unused.
func CanEmbed(carrierBytes, payloadBytes int64) bool {
	if carrierBytes <= 0 || payloadBytes < 0 {
		return false
	}
	if payloadBytes > math.MaxInt64/ExpansionRatio {
		return false
	}
	return payloadBytes*ExpansionRatio < carrierBytes
}

// CheckCapacity is CanEmbed returning a *CapacityExceededError on failure
func CheckCapacity(carrierBytes, payloadBytes int64) error {
	if CanEmbed(carrierBytes, payloadBytes) {
		return nil
	}
	return &ppmerrors.CapacityExceededError{
		PayloadBytes: payloadBytes,
		CarrierBytes: carrierBytes,
	}
}

// MaxPayload returns the largest payload size accepted by CanEmbed, or 0
// when the carrier cannot hold any byte.
func MaxPayload(carrierBytes int64) int64 {
	if carrierBytes <= ExpansionRatio {
		return 0
	}
	return (carrierBytes - 1) / ExpansionRatio
}

// RequiredCarrierBytes is the smallest carrier size accepted for payloadBytes
func RequiredCarrierBytes(payloadBytes int64) int64 {
	return payloadBytes*ExpansionRatio + 1
}
