// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// IRMaterial is an investor relations document such as a report or filing.
type IRMaterial struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	FileURL       *string   `json:"file_url"`
	FileName      *string   `json:"file_name"`
	FileType      *string   `json:"file_type"`
	FileSize      *int64    `json:"file_size"`
	Category      *string   `json:"category"`
	PublishedDate *string   `json:"published_date"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IRMaterialInput is the writable subset of IRMaterial.
type IRMaterialInput struct {
	Title         string  `form:"title" validate:"required"`
	Description   *string `form:"description"`
	FileURL       *string `form:"file_url"`
	FileName      *string `form:"file_name"`
	FileType      *string `form:"file_type"`
	FileSize      *int64  `form:"file_size" validate:"omitempty,min=0"`
	Category      *string `form:"category"`
	PublishedDate *string `form:"published_date" validate:"omitempty,datetime=2006-01-02"`
	IsPublished   bool    `form:"is_published"`
}

// Trimmed returns a copy with surrounding whitespace removed.
func (in IRMaterialInput) Trimmed() IRMaterialInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimOptional(in.Description)
	in.FileURL = trimOptional(in.FileURL)
	in.FileName = trimOptional(in.FileName)
	in.FileType = trimOptional(in.FileType)
	in.Category = trimOptional(in.Category)
	in.PublishedDate = trimOptional(in.PublishedDate)
	return in
}

// Input returns the writable fields of a stored IR material.
func (m IRMaterial) Input() IRMaterialInput {
	return IRMaterialInput{
		Title:         m.Title,
		Description:   m.Description,
		FileURL:       m.FileURL,
		FileName:      m.FileName,
		FileType:      m.FileType,
		FileSize:      m.FileSize,
		Category:      m.Category,
		PublishedDate: m.PublishedDate,
		IsPublished:   m.IsPublished,
	}
}

// Created returns the insert timestamp.
func (m IRMaterial) Created() time.Time { return m.CreatedAt }

// Updated returns the last update timestamp.
func (m IRMaterial) Updated() time.Time { return m.UpdatedAt }
