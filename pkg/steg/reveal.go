package steg

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm/stream"
)

// RevealOptions names the stego image and where its payload goes
type RevealOptions struct {
	CarrierPath string
	OutputPath  string

	Mode      os.FileMode
	Overwrite bool

	// ExpectChecksum, when set, must match the revealed payload
	// ("sha256:<hex>", "blake2b:<hex>", ...) or the output is discarded.
	ExpectChecksum string
}

// RevealResult describes a committed payload file
type RevealResult struct {
	Header       *ppm.Header
	PayloadBytes int64
	Checksum     string
}

// Reveal recovers the payload hidden in a carrier produced by Hide
func Reveal(opts RevealOptions, logger hclog.Logger) (*RevealResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	algo := ChecksumSHA256
	var expected string
	if opts.ExpectChecksum != "" {
		var err error
		algo, expected, err = ParseChecksum(opts.ExpectChecksum)
		if err != nil {
			return nil, err
		}
	}

	reader, err := NewReaderWithLogger(opts.CarrierPath, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Debug("Failed to close carrier", "error", err)
		}
	}()

	header, err := reader.ReadHeader()
	if err != nil {
		return nil, err
	}
	n, err := reader.EmbeddedLength()
	if err != nil {
		return nil, err
	}

	out, err := stream.CreateOutput(opts.OutputPath, stream.OutputOptions{
		Mode:         opts.Mode,
		Overwrite:    opts.Overwrite,
		ExpectedSize: n,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	defer out.Close()

	h := NewChecksumHash(algo)
	if _, err := reader.ExtractPayload(&hashingByteWriter{w: out, h: h}); err != nil {
		return nil, err
	}

	checksum := FormatChecksum(algo, h)
	if expected != "" {
		_, actual, _ := strings.Cut(checksum, ":")
		if actual != expected {
			logger.Error("❌ Payload checksum mismatch", "expected", opts.ExpectChecksum, "actual", checksum)
			return nil, fmt.Errorf("%w: expected %s, got %s", ppmerrors.ErrChecksumMismatch, opts.ExpectChecksum, checksum)
		}
		logger.Debug("✓ Payload checksum verified", "checksum", checksum)
	}

	if err := out.Commit(); err != nil {
		return nil, err
	}

	logger.Info("✅ Payload revealed",
		"output", opts.OutputPath,
		"payload_bytes", n,
		"checksum", checksum)

	return &RevealResult{
		Header:       header,
		PayloadBytes: n,
		Checksum:     checksum,
	}, nil
}
