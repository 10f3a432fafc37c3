// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// PressMedia is a press release or media mention. Its id is a UUIDv7 string.
type PressMedia struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ImageURL      *string   `json:"image_url"`
	FileURL       *string   `json:"file_url"`
	PublishedDate string    `json:"published_date"`
	IsFeatured    bool      `json:"is_featured"`
	DisplayOrder  int64     `json:"display_order"` // ascending is shown first
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PressMediaInput is the writable subset of PressMedia.
type PressMediaInput struct {
	Title         string  `form:"title" validate:"required"`
	Content       string  `form:"content" validate:"required"`
	ImageURL      *string `form:"image_url"`
	FileURL       *string `form:"file_url"`
	PublishedDate string  `form:"published_date" validate:"required,datetime=2006-01-02"`
	IsFeatured    bool    `form:"is_featured"`
	DisplayOrder  int64   `form:"display_order"`
}

// Trimmed returns a copy with surrounding whitespace removed.
func (in PressMediaInput) Trimmed() PressMediaInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = trimOptional(in.ImageURL)
	in.FileURL = trimOptional(in.FileURL)
	in.PublishedDate = strings.TrimSpace(in.PublishedDate)
	return in
}

// Input returns the writable fields of a stored press item.
func (p PressMedia) Input() PressMediaInput {
	return PressMediaInput{
		Title:         p.Title,
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		FileURL:       p.FileURL,
		PublishedDate: p.PublishedDate,
		IsFeatured:    p.IsFeatured,
		DisplayOrder:  p.DisplayOrder,
	}
}

// Created returns the insert timestamp.
func (p PressMedia) Created() time.Time { return p.CreatedAt }

// Updated returns the last update timestamp.
func (p PressMedia) Updated() time.Time { return p.UpdatedAt }
