package steg

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

// Check is one verification step
type Check struct {
	Name   string
	Err    error
	Detail string
}

// Passed reports whether the check succeeded
func (c Check) Passed() bool {
	return c.Err == nil
}

// VerifyReport lists every check run against a carrier
type VerifyReport struct {
	Path   string
	Checks []Check
}

// Err joins the errors of all failed checks, or returns nil
func (r *VerifyReport) Err() error {
	var errs []error
	for _, c := range r.Checks {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, c.Err))
		}
	}
	return errors.Join(errs...)
}

// Verify checks that a stego image can be revealed: the header parses, the
// type carries binary pixels, the pixel body is complete and the embedded
// length fits in it. Every check runs even after a failure.
func Verify(path string, logger hclog.Logger) (*VerifyReport, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	report := &VerifyReport{Path: path}
	add := func(name string, err error, detail string) {
		report.Checks = append(report.Checks, Check{Name: name, Err: err, Detail: detail})
		if err != nil {
			logger.Error("✗ "+name, "error", err)
		} else {
			logger.Info("✓ "+name, "detail", detail)
		}
	}

	reader, err := NewReaderWithLogger(path, logger)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	header, err := reader.ReadHeader()
	if err != nil {
		add("header", err, "")
		return report, report.Err()
	}
	add("header", nil, fmt.Sprintf("%s %dx%d max %d", header.Tag, header.Width, header.Height, header.MaxValue))

	if err := checkEmbeddable(header, "reveal"); err != nil {
		add("type", err, "")
	} else {
		add("type", nil, header.Type.String())
	}

	available, err := reader.PixelBytesAvailable()
	switch {
	case err != nil:
		add("pixel data", err, "")
	case available < header.PixelDataSize():
		add("pixel data", fmt.Errorf("%w: %d of %d bytes present",
			ppmerrors.ErrTruncatedPixelData, available, header.PixelDataSize()), "")
	default:
		add("pixel data", nil, fmt.Sprintf("%d bytes", available))
	}

	n, ok := header.PayloadLength()
	switch {
	case !ok:
		add("embedded length", ppmerrors.ErrMissingCapacityMetadata, "")
	case err == nil && n > available/ppm.ExpansionRatio:
		add("embedded length", fmt.Errorf("%w: %d payload bytes need %d carrier bytes, %d present",
			ppmerrors.ErrTruncatedPixelData, n, n*ppm.ExpansionRatio, available), "")
	default:
		add("embedded length", nil, fmt.Sprintf("%d bytes", n))
	}

	return report, report.Err()
}
