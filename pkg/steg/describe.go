package steg

import (
	"github.com/hashicorp/go-hclog"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
)

// HeaderInfo is the presentation model of a parsed carrier
type HeaderInfo struct {
	Path            string `json:"path"`
	Type            string `json:"type"`
	Tag             string `json:"tag"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	MaxValue        int    `json:"max_color_value"`
	HeaderBytes     int64  `json:"header_bytes"`
	PixelBytes      int64  `json:"pixel_bytes"`
	AvailableBytes  int64  `json:"available_bytes"`
	MaxPayload      int64  `json:"max_payload"`
	EmbeddedPayload *int64 `json:"embedded_payload,omitempty"`
}

// Describe parses the header at path and summarizes it
func Describe(path string, logger hclog.Logger) (*HeaderInfo, error) {
	reader, err := NewReaderWithLogger(path, logger)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	header, err := reader.ReadHeader()
	if err != nil {
		return nil, err
	}
	available, err := reader.PixelBytesAvailable()
	if err != nil {
		return nil, err
	}

	info := &HeaderInfo{
		Path:           path,
		Type:           header.Type.String(),
		Tag:            header.Tag,
		Width:          header.Width,
		Height:         header.Height,
		MaxValue:       header.MaxValue,
		HeaderBytes:    header.Len(),
		PixelBytes:     header.PixelDataSize(),
		AvailableBytes: available,
	}
	if checkEmbeddable(header, "hide") == nil {
		info.MaxPayload = ppm.MaxPayload(available)
	}
	if n, ok := header.PayloadLength(); ok {
		info.EmbeddedPayload = &n
	}
	return info, nil
}
