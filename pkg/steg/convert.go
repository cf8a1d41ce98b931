package steg

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/hashicorp/go-hclog"
	pnm "github.com/jbuchbinder/gopnm"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/prevostcorentin/ppm-steg/pkg/ppm"
	"github.com/prevostcorentin/ppm-steg/pkg/ppm/stream"
)

// ConvertOptions describes how to turn an ordinary image into a carrier
type ConvertOptions struct {
	SourcePath string
	OutputPath string

	// Width and Height force a resize; a zero side keeps the aspect ratio
	Width  uint
	Height uint

	// FitPayloadBytes, when positive, upscales the image until it can hold
	// that many payload bytes
	FitPayloadBytes int64

	Mode      os.FileMode
	Overwrite bool
}

// ConvertResult describes the carrier written by ConvertToCarrier
type ConvertResult struct {
	SourceFormat string
	Info         *HeaderInfo
}

// ConvertToCarrier decodes any supported image (PNG, JPEG, GIF, BMP, TIFF,
// PNM) and writes it as a binary PPM carrier.
func ConvertToCarrier(opts ConvertOptions, logger hclog.Logger) (*ConvertResult, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	src, err := os.Open(opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source image: %w", err)
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", opts.SourcePath, err)
	}
	bounds := img.Bounds()
	logger.Debug("🖼️ Decoded source image", "format", format, "width", bounds.Dx(), "height", bounds.Dy())

	if opts.Width > 0 || opts.Height > 0 {
		img = resize.Resize(opts.Width, opts.Height, img, resize.Lanczos3)
		logger.Debug("Resized image", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	}

	if opts.FitPayloadBytes > 0 {
		width, height := FitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), opts.FitPayloadBytes)
		if width != img.Bounds().Dx() || height != img.Bounds().Dy() {
			img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
			logger.Info("🔍 Upscaled carrier to fit payload",
				"payload_bytes", opts.FitPayloadBytes,
				"width", width,
				"height", height)
		}
	}

	rgba := toRGBA(img)
	size := int64(rgba.Bounds().Dx()) * int64(rgba.Bounds().Dy()) * 3

	out, err := stream.CreateOutput(opts.OutputPath, stream.OutputOptions{
		Mode:         opts.Mode,
		Overwrite:    opts.Overwrite,
		ExpectedSize: size,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := pnm.Encode(out, rgba, pnm.PPM); err != nil {
		return nil, fmt.Errorf("encoding carrier: %w", err)
	}
	if err := out.Commit(); err != nil {
		return nil, err
	}

	info, err := Describe(opts.OutputPath, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("✅ Carrier written",
		"output", opts.OutputPath,
		"width", info.Width,
		"height", info.Height,
		"max_payload", info.MaxPayload)

	return &ConvertResult{SourceFormat: format, Info: info}, nil
}

// FitDimensions scales width and height by the same factor until a binary
// carrier of that size can hold payloadBytes. Dimensions that already fit
// are returned unchanged.
func FitDimensions(width, height int, payloadBytes int64) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	fits := func(w, h int) bool {
		return ppm.CanEmbed(int64(w)*int64(h)*3, payloadBytes)
	}
	if fits(width, height) {
		return width, height
	}

	required := float64(ppm.RequiredCarrierBytes(payloadBytes)) / 3
	scale := math.Sqrt(required / (float64(width) * float64(height)))
	w := int(math.Ceil(float64(width) * scale))
	h := int(math.Ceil(float64(height) * scale))
	for !fits(w, h) {
		w++
		h = int(math.Ceil(float64(w) * float64(height) / float64(width)))
	}
	return w, h
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
