// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images before they reach object
// storage: EXIF orientation is applied, metadata is stripped and oversized
// images are scaled down.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/contentdesk/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a normalized image ready for upload.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
}

// Options bound the output of a Processor. Zero MaxWidth/MaxHeight keep
// the original dimensions.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Processor handles image processing operations using pure Go libraries.
type Processor struct {
	opts Options
}

// NewProcessor creates a new image processor.
func NewProcessor(opts Options) *Processor {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 90
	}
	return &Processor{opts: opts}
}

// Normalize decodes data, applies EXIF orientation, fits the image into the
// configured bounds and re-encodes it. WebP input is re-encoded as JPEG.
func (p *Processor) Normalize(data []byte) (*Result, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(data))

	b := img.Bounds()
	if (p.opts.MaxWidth > 0 && b.Dx() > p.opts.MaxWidth) || (p.opts.MaxHeight > 0 && b.Dy() > p.opts.MaxHeight) {
		w, h := p.opts.MaxWidth, p.opts.MaxHeight
		if w == 0 {
			w = b.Dx()
		}
		if h == 0 {
			h = b.Dy()
		}
		img = imaging.Fit(img, w, h, imaging.Lanczos)
	}

	if format == "webp" {
		format = "jpeg"
	}
	out, err := encodeImage(img, format, p.opts.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b = img.Bounds()
	return &Result{
		Data:     out,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: formatToMimeType(format),
	}, nil
}

// IsImage checks if a MIME type represents an image that can be processed.
func (p *Processor) IsImage(mimeType string) bool {
	return model.IsImageMimeType(mimeType)
}

// DetectMimeType sniffs data and strips any parameters from the result.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation maps EXIF orientation 1-8 onto flips and rotations.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
