// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olegiv/contentdesk/internal/model"
)

// Kind selects the size limit and accepted types of an upload.
type Kind string

const (
	KindImage    Kind = "image"    // inline images, 5MB
	KindPhoto    Kind = "photo"    // press photos, 10MB
	KindDocument Kind = "document" // PDFs and office files, 50MB
)

const mb = 1 << 20

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindImage, KindPhoto, KindDocument:
		return k, nil
	}
	return "", fmt.Errorf("unknown upload kind %q", s)
}

// Limit returns the maximum upload size in bytes.
func (k Kind) Limit() int64 {
	switch k {
	case KindImage:
		return 5 * mb
	case KindPhoto:
		return 10 * mb
	default:
		return 50 * mb
	}
}

// IsImage reports whether uploads of k are decoded and normalized.
func (k Kind) IsImage() bool {
	return k == KindImage || k == KindPhoto
}

// office formats sniff as zip or octet-stream; their extension decides.
var documentExtensions = map[string]string{
	"pdf":  model.MimeTypePDF,
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"csv":  "text/csv",
	"txt":  model.MimeTypeText,
	"zip":  model.MimeTypeZIP,
}

// documentType decides the stored content type and extension of a
// document from its sniffed type and original name.
func documentType(sniffed, filename string) (contentType, ext string, err error) {
	ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	declared, known := documentExtensions[ext]

	switch {
	case sniffed == model.MimeTypePDF:
		return model.MimeTypePDF, "pdf", nil
	case model.IsImageMimeType(sniffed):
		return sniffed, model.MimeTypeExtension(sniffed), nil
	case !known:
		return "", "", ErrUnsupportedType
	case sniffed == model.MimeTypeZIP && strings.HasSuffix(ext, "x"), sniffed == model.MimeTypeZIP && ext == "zip":
		return declared, ext, nil
	case sniffed == "application/octet-stream" && (ext == "doc" || ext == "xls" || ext == "ppt"):
		return declared, ext, nil
	case sniffed == model.MimeTypeText && (ext == "txt" || ext == "csv"):
		return declared, ext, nil
	}
	return "", "", ErrUnsupportedType
}
