// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Article is a long-form publication with an optional PDF attachment.
type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PDFURL      *string   `json:"pdf_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleInput is the writable subset of Article.
type ArticleInput struct {
	Title       string  `form:"title" validate:"required"`
	Description string  `form:"description" validate:"required"`
	PDFURL      *string `form:"pdf_url"`
}

// Trimmed returns a copy with surrounding whitespace removed.
func (in ArticleInput) Trimmed() ArticleInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.PDFURL = trimOptional(in.PDFURL)
	return in
}

// Input returns the writable fields of a stored article.
func (a Article) Input() ArticleInput {
	return ArticleInput{Title: a.Title, Description: a.Description, PDFURL: a.PDFURL}
}

// Created returns the insert timestamp.
func (a Article) Created() time.Time { return a.CreatedAt }

// Updated returns the last update timestamp.
func (a Article) Updated() time.Time { return a.UpdatedAt }
