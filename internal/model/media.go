// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
	MimeTypeZIP  = "application/zip"
	MimeTypeText = "text/plain"
)

// IsImageMimeType reports whether mimeType is an image the dashboard can
// decode and re-encode.
func IsImageMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}

// MimeTypeExtension returns the canonical file extension for mimeType,
// without the dot, or "" if unknown.
func MimeTypeExtension(mimeType string) string {
	switch mimeType {
	case MimeTypeJPEG:
		return "jpg"
	case MimeTypePNG:
		return "png"
	case MimeTypeGIF:
		return "gif"
	case MimeTypeWebP:
		return "webp"
	case MimeTypePDF:
		return "pdf"
	case MimeTypeZIP:
		return "zip"
	case MimeTypeText:
		return "txt"
	}
	return ""
}
