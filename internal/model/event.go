// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Person is a speaker or guest listed on an event. It is stored inside the
// event row as JSON.
type Person struct {
	Name        string   `json:"name" form:"name" validate:"required"`
	Title       string   `json:"title" form:"title"`
	Subtitle    string   `json:"subtitle" form:"subtitle"`
	Speaker     string   `json:"speaker" form:"speaker"`
	Description []string `json:"description" form:"description"`
}

// IsBlank reports whether every field of p is empty.
func (p Person) IsBlank() bool {
	return p.Name == "" && p.Title == "" && p.Subtitle == "" && p.Speaker == "" && len(p.Description) == 0
}

// Trimmed returns p with whitespace and blank description lines removed.
func (p Person) Trimmed() Person {
	p.Name = strings.TrimSpace(p.Name)
	p.Title = strings.TrimSpace(p.Title)
	p.Subtitle = strings.TrimSpace(p.Subtitle)
	p.Speaker = strings.TrimSpace(p.Speaker)
	p.Description = trimLines(p.Description)
	return p
}

// Event is an announcement with banner lines and a lineup of people.
type Event struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	BannerDescription []string  `json:"banner_description"`
	People            []Person  `json:"people"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EventInput is the writable subset of Event. Nil slices are stored as NULL.
type EventInput struct {
	Title             string   `form:"title" validate:"required"`
	Description       string   `form:"description" validate:"required"`
	BannerDescription []string `form:"banner_description"`
	People            []Person `form:"people" validate:"omitempty,dive"`
}

// Trimmed returns a copy with whitespace removed, blank banner lines dropped
// and entirely blank people removed.
func (in EventInput) Trimmed() EventInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.BannerDescription = trimLines(in.BannerDescription)

	var people []Person
	for _, p := range in.People {
		if p = p.Trimmed(); !p.IsBlank() {
			people = append(people, p)
		}
	}
	in.People = people
	return in
}

// Input returns the writable fields of a stored event.
func (e Event) Input() EventInput {
	return EventInput{
		Title:             e.Title,
		Description:       e.Description,
		BannerDescription: e.BannerDescription,
		People:            e.People,
	}
}

// Created returns the insert timestamp.
func (e Event) Created() time.Time { return e.CreatedAt }

// Updated returns the last update timestamp.
func (e Event) Updated() time.Time { return e.UpdatedAt }
