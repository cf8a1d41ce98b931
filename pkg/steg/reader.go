// Package steg hides files inside PPM images and reveals them again.
//
// A payload is spread over the two low-order bits of the carrier's pixel
// bytes, four carrier bytes per payload byte. The payload length is recorded
// in a header comment so that Reveal knows exactly how much to read back.
package steg

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm/lsb"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm/stream"
)

var errPixelDataConsumed = errors.New("pixel data already consumed")

// Reader reads PPM carriers
type Reader struct {
	carrierPath string
	stream      *stream.Reader
	header      *ppm.Header
	consumed    bool
	logger      hclog.Logger
}

// NewReader creates a new carrier reader
func NewReader(carrierPath string) (*Reader, error) {
	return NewReaderWithLogger(carrierPath, hclog.NewNullLogger())
}

// NewReaderWithLogger creates a new carrier reader with a custom logger
func NewReaderWithLogger(carrierPath string, logger hclog.Logger) (*Reader, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Reader{
		carrierPath: carrierPath,
		logger:      logger,
	}, nil
}

// Open opens the carrier file
func (r *Reader) Open() error {
	if r.stream != nil {
		return nil
	}

	s, err := stream.OpenCarrier(r.carrierPath)
	if err != nil {
		return err
	}

	r.stream = s
	return nil
}

// Close closes the carrier file
func (r *Reader) Close() error {
	if r.stream != nil {
		err := r.stream.Close()
		r.stream = nil
		return err
	}
	return nil
}

// ReadHeader parses the carrier header once and caches it
func (r *Reader) ReadHeader() (*ppm.Header, error) {
	if r.header != nil {
		return r.header, nil
	}

	if err := r.Open(); err != nil {
		return nil, err
	}

	header, err := ppm.ParseHeader(r.stream)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.carrierPath, err)
	}

	r.logger.Debug("🧾 Parsed carrier header",
		"path", r.carrierPath,
		"type", header.Type.String(),
		"width", header.Width,
		"height", header.Height,
		"max_value", header.MaxValue,
		"header_bytes", header.Len(),
		"embedded", header.HasCapacity)

	r.header = header
	return header, nil
}

// PixelBytesAvailable returns how many bytes follow the header in the file
func (r *Reader) PixelBytesAvailable() (int64, error) {
	header, err := r.ReadHeader()
	if err != nil {
		return 0, err
	}
	size, err := r.stream.Size()
	if err != nil {
		return 0, err
	}
	if size < header.Len() {
		return 0, nil
	}
	return size - header.Len(), nil
}

// PixelData checks that the carrier has a binary pixel body of the size its
// header announces and returns the number of pixel bytes present.
func (r *Reader) PixelData(operation string) (int64, error) {
	header, err := r.ReadHeader()
	if err != nil {
		return 0, err
	}
	if err := checkEmbeddable(header, operation); err != nil {
		return 0, err
	}

	available, err := r.PixelBytesAvailable()
	if err != nil {
		return 0, err
	}
	if available < header.PixelDataSize() {
		return 0, fmt.Errorf("%w: %s announces %d pixel bytes, %d present",
			ppmerrors.ErrTruncatedPixelData, r.carrierPath, header.PixelDataSize(), available)
	}
	return available, nil
}

// EmbeddedLength returns the payload length recorded in the header after
// checking that the pixel data can hold it
func (r *Reader) EmbeddedLength() (int64, error) {
	header, err := r.ReadHeader()
	if err != nil {
		return 0, err
	}
	n, ok := header.PayloadLength()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ppmerrors.ErrMissingCapacityMetadata, r.carrierPath)
	}

	available, err := r.PixelData("reveal")
	if err != nil {
		return 0, err
	}
	if n > available/ppm.ExpansionRatio {
		return 0, fmt.Errorf("%w: %s declares %d payload bytes but holds at most %d",
			ppmerrors.ErrTruncatedPixelData, r.carrierPath, n, available/ppm.ExpansionRatio)
	}
	return n, nil
}

// checkEmbeddable rejects carriers whose samples the engine cannot touch
// without visible damage: non-binary bodies and 16-bit samples, where the
// low bits of the high byte carry color.
func checkEmbeddable(header *ppm.Header, operation string) error {
	if header.Type != ppm.TypeBinary {
		return &ppmerrors.UnsupportedTypeError{Tag: header.Tag, Operation: operation}
	}
	if header.BytesPerSample() != 1 {
		return &ppmerrors.UnsupportedTypeError{
			Tag:       header.Tag,
			Operation: operation,
			Reason:    fmt.Sprintf("max color value %d needs 16-bit samples", header.MaxValue),
		}
	}
	return nil
}

// ExtractPayload decodes the embedded payload into w and returns its length.
// The pixel data can only be consumed once.
func (r *Reader) ExtractPayload(w io.ByteWriter) (int64, error) {
	n, err := r.EmbeddedLength()
	if err != nil {
		return 0, err
	}

	if r.consumed {
		return 0, errPixelDataConsumed
	}
	r.consumed = true

	r.logger.Trace("🔍 Decoding payload", "bytes", n, "carrier_bytes", n*ppm.ExpansionRatio)
	if err := lsb.Decode(r.stream, n, w); err != nil {
		return 0, err
	}
	return n, nil
}

// embed runs the encoder over the remaining pixel data
func (r *Reader) embed(payload io.ByteReader, out io.ByteWriter) (lsb.Stats, error) {
	if r.consumed {
		return lsb.Stats{}, errPixelDataConsumed
	}
	r.consumed = true
	return lsb.Encode(r.stream, payload, out)
}
