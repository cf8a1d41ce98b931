// Checksum utilities supporting multiple algorithms with prefixed format.
//
// Format: "algorithm:hexvalue" (e.g., "sha256:c0ffee123...", "adler32:babe1337")

package steg

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/adler32"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm int

const (
	ChecksumSHA256 ChecksumAlgorithm = iota
	ChecksumSHA512
	ChecksumAdler32
	ChecksumBlake2b
)

func (c ChecksumAlgorithm) String() string {
	switch c {
	case ChecksumSHA256:
		return "sha256"
	case ChecksumSHA512:
		return "sha512"
	case ChecksumAdler32:
		return "adler32"
	case ChecksumBlake2b:
		return "blake2b"
	default:
		return "unknown"
	}
}

// ParseChecksumAlgorithm maps an algorithm name to its ChecksumAlgorithm
func ParseChecksumAlgorithm(name string) (ChecksumAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha256", "":
		return ChecksumSHA256, nil
	case "sha512":
		return ChecksumSHA512, nil
	case "adler32":
		return ChecksumAdler32, nil
	case "blake2b":
		return ChecksumBlake2b, nil
	default:
		return ChecksumSHA256, fmt.Errorf("unknown checksum algorithm: %s", name)
	}
}

// ParseChecksum parses a checksum string that may or may not have a prefix
func ParseChecksum(checksumStr string) (ChecksumAlgorithm, string, error) {
	if algoName, value, ok := strings.Cut(checksumStr, ":"); ok {
		algo, err := ParseChecksumAlgorithm(algoName)
		if err != nil {
			return ChecksumSHA256, "", err
		}
		if value == "" {
			return ChecksumSHA256, "", fmt.Errorf("invalid checksum format: %s", checksumStr)
		}
		return algo, strings.ToLower(value), nil
	}

	// Unprefixed - guess based on length
	var algo ChecksumAlgorithm
	switch len(checksumStr) {
	case 128:
		algo = ChecksumSHA512
	case 8:
		algo = ChecksumAdler32
	default:
		algo = ChecksumSHA256
	}

	return algo, strings.ToLower(checksumStr), nil
}

// NewChecksumHash returns a running hash for the algorithm
func NewChecksumHash(algorithm ChecksumAlgorithm) hash.Hash {
	switch algorithm {
	case ChecksumSHA512:
		return sha512.New()
	case ChecksumAdler32:
		return adler32.New()
	case ChecksumBlake2b:
		h, _ := blake2b.New256(nil) // only fails for oversized keys
		return h
	default:
		return sha256.New()
	}
}

// FormatChecksum renders a finished hash with its algorithm prefix
func FormatChecksum(algorithm ChecksumAlgorithm, h hash.Hash) string {
	return algorithm.String() + ":" + hex.EncodeToString(h.Sum(nil))
}

// CalculateChecksum calculates checksum with prefix
func CalculateChecksum(data []byte, algorithm ChecksumAlgorithm) string {
	h := NewChecksumHash(algorithm)
	h.Write(data)
	return FormatChecksum(algorithm, h)
}

// VerifyChecksum verifies data against a checksum string
func VerifyChecksum(data []byte, checksumStr string) (bool, error) {
	algo, expected, err := ParseChecksum(checksumStr)
	if err != nil {
		return false, err
	}

	_, actualHex, _ := strings.Cut(CalculateChecksum(data, algo), ":")
	return actualHex == expected, nil
}

// hashingByteReader feeds every byte read into a hash
type hashingByteReader struct {
	r io.ByteReader
	h hash.Hash
	b [1]byte
}

func (hr *hashingByteReader) ReadByte() (byte, error) {
	c, err := hr.r.ReadByte()
	if err == nil {
		hr.b[0] = c
		hr.h.Write(hr.b[:])
	}
	return c, err
}

// hashingByteWriter feeds every byte written into a hash
type hashingByteWriter struct {
	w io.ByteWriter
	h hash.Hash
	b [1]byte
}

func (hw *hashingByteWriter) WriteByte(c byte) error {
	if err := hw.w.WriteByte(c); err != nil {
		return err
	}
	hw.b[0] = c
	hw.h.Write(hw.b[:])
	return nil
}
