// Package lsb hides payload bytes in the two least-significant bits of
// carrier bytes.
//
// Each payload byte is split into four 2-bit groups, least-significant pair
// first: bits (0,1), (2,3), (4,5), (6,7). Group k replaces the low two bits
// of the k-th carrier byte of its run; the upper six bits of every carrier
// byte are never touched.
package lsb

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// GroupsPerByte is the number of carrier bytes holding one payload byte
const GroupsPerByte = ppm.ExpansionRatio

// Splice replaces the low two bits of c with the low two bits of group
func Splice(c, group byte) byte {
	return (c &^ ppm.LowBitsMask) | (group & ppm.LowBitsMask)
}

// Group returns the k-th 2-bit group of b, k in [0,4)
func Group(b byte, k int) byte {
	return (b >> (ppm.BitsPerCarrierByte * k)) & ppm.LowBitsMask
}

// EmbedByte hides b in four carrier bytes
func EmbedByte(carrier [GroupsPerByte]byte, b byte) [GroupsPerByte]byte {
	var out [GroupsPerByte]byte
	for k := range carrier {
		out[k] = Splice(carrier[k], Group(b, k))
	}
	return out
}

// ExtractByte reassembles the byte hidden in four carrier bytes
func ExtractByte(carrier [GroupsPerByte]byte) byte {
	var b byte
	for k, c := range carrier {
		b |= (c & ppm.LowBitsMask) << (ppm.BitsPerCarrierByte * k)
	}
	return b
}

// Stats describes a finished Encode pass
type Stats struct {
	PayloadBytes  int64 // payload bytes hidden
	ModifiedBytes int64 // carrier bytes carrying payload groups
	CopiedBytes   int64 // carrier bytes passed through unchanged
}

// Written is the total number of bytes written to the output
func (s Stats) Written() int64 {
	return s.ModifiedBytes + s.CopiedBytes
}

// Encode hides every byte of payload in carrier and writes the result to out.
// Once the payload is exhausted the rest of the carrier is copied unchanged,
// so out receives exactly as many bytes as carrier holds.
//
// If carrier runs out before the payload does, Encode fails with
// ErrCapacityExceeded. The caller is expected to have checked capacity first;
// whatever was already written must be discarded.
func Encode(carrier, payload io.ByteReader, out io.ByteWriter) (Stats, error) {
	var stats Stats

	for {
		b, err := payload.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading payload byte %d: %w", stats.PayloadBytes, err)
		}

		for k := 0; k < GroupsPerByte; k++ {
			c, err := carrier.ReadByte()
			if err == io.EOF {
				return stats, &ppmerrors.CapacityExceededError{
					PayloadBytes: stats.PayloadBytes + 1,
					CarrierBytes: stats.ModifiedBytes,
				}
			}
			if err != nil {
				return stats, fmt.Errorf("reading carrier byte %d: %w", stats.ModifiedBytes, err)
			}
			if err := out.WriteByte(Splice(c, Group(b, k))); err != nil {
				return stats, fmt.Errorf("writing output byte %d: %w", stats.Written(), err)
			}
			stats.ModifiedBytes++
		}
		stats.PayloadBytes++
	}

	for {
		c, err := carrier.ReadByte()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("reading carrier byte %d: %w", stats.Written(), err)
		}
		if err := out.WriteByte(c); err != nil {
			return stats, fmt.Errorf("writing output byte %d: %w", stats.Written(), err)
		}
		stats.CopiedBytes++
	}
}

// Decode recovers n payload bytes from the start of carrier and writes them
// to out. Carrier bytes past the first 4*n are not read.
func Decode(carrier io.ByteReader, n int64, out io.ByteWriter) error {
	if n < 0 {
		return fmt.Errorf("negative payload length %d", n)
	}

	var group [GroupsPerByte]byte
	for i := int64(0); i < n; i++ {
		for k := range group {
			c, err := carrier.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return fmt.Errorf("%w: payload byte %d of %d needs carrier byte %d",
						ppmerrors.ErrTruncatedPixelData, i, n, i*GroupsPerByte+int64(k))
				}
				return fmt.Errorf("reading carrier byte %d: %w", i*GroupsPerByte+int64(k), err)
			}
			group[k] = c
		}
		if err := out.WriteByte(ExtractByte(group)); err != nil {
			return fmt.Errorf("writing payload byte %d: %w", i, err)
		}
	}
	return nil
}

// EncodeBytes is Encode over in-memory slices
func EncodeBytes(carrier, payload []byte) ([]byte, error) {
	if err := ppm.CheckCapacity(int64(len(carrier)), int64(len(payload))); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(len(carrier))
	if _, err := Encode(bytes.NewReader(carrier), bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeBytes is Decode over an in-memory slice
func DecodeBytes(carrier []byte, n int) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(n)
	if err := Decode(bytes.NewReader(carrier), int64(n), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
