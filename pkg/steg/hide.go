package steg

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm/stream"
)

// HideOptions names the files taking part in a hide
type HideOptions struct {
	CarrierPath string
	PayloadPath string
	OutputPath  string

	Mode      os.FileMode
	Overwrite bool
	Checksum  ChecksumAlgorithm
}

// HideResult describes a committed stego image
type HideResult struct {
	Header       *ppm.Header // header written to the output
	PayloadBytes int64
	CarrierBytes int64 // pixel bytes available in the carrier
	OutputBytes  int64
	Checksum     string // payload checksum, algorithm prefixed
}

// Hide embeds the payload file in the carrier's pixel data and writes the
// result to the output path. The output only exists once it is complete:
// any failure leaves no file behind.
func Hide(opts HideOptions, logger hclog.Logger) (*HideResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
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
	carrierBytes, err := reader.PixelData("hide")
	if err != nil {
		return nil, err
	}

	payload, err := stream.OpenPayload(opts.PayloadPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := payload.Close(); err != nil {
			logger.Debug("Failed to close payload", "error", err)
		}
	}()

	payloadBytes, err := payload.Size()
	if err != nil {
		return nil, err
	}

	logger.Debug("📏 Checking capacity",
		"payload_bytes", payloadBytes,
		"carrier_bytes", carrierBytes,
		"max_payload", ppm.MaxPayload(carrierBytes))
	if err := ppm.CheckCapacity(carrierBytes, payloadBytes); err != nil {
		return nil, err
	}

	outHeader := header.WithCapacity(payloadBytes)
	out, err := stream.CreateOutput(opts.OutputPath, stream.OutputOptions{
		Mode:         opts.Mode,
		Overwrite:    opts.Overwrite,
		ExpectedSize: outHeader.Len() + carrierBytes,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := outHeader.WriteTo(out); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	h := NewChecksumHash(opts.Checksum)
	stats, err := reader.embed(&hashingByteReader{r: payload, h: h}, out)
	if err != nil {
		return nil, err
	}
	if stats.PayloadBytes != payloadBytes {
		return nil, fmt.Errorf("%w: read %d of %d bytes from %s",
			ppmerrors.ErrPayloadTruncated, stats.PayloadBytes, payloadBytes, opts.PayloadPath)
	}

	if err := out.Commit(); err != nil {
		return nil, err
	}

	result := &HideResult{
		Header:       outHeader,
		PayloadBytes: payloadBytes,
		CarrierBytes: carrierBytes,
		OutputBytes:  out.Written(),
		Checksum:     FormatChecksum(opts.Checksum, h),
	}

	logger.Info("✅ Payload hidden",
		"output", opts.OutputPath,
		"payload_bytes", result.PayloadBytes,
		"modified_bytes", stats.ModifiedBytes,
		"copied_bytes", stats.CopiedBytes,
		"checksum", result.Checksum)

	return result, nil
}
