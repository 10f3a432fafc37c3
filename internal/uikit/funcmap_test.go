// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/url"
	"testing"
	"time"

	"github.com/olegiv/contentdesk/internal/model"
)

func TestTemplateFuncs_FormatFunctions(t *testing.T) {
	funcs := TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}

	formatDateTime := funcs["formatDateTime"].(func(time.Time) string)
	testTime = time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
	if got := formatDateTime(testTime); got != "Mar 15, 2025 2:30 PM" {
		t.Errorf("formatDateTime() = %q, want %q", got, "Mar 15, 2025 2:30 PM")
	}
}

func TestTemplateFuncs_Truncate(t *testing.T) {
	truncate := TemplateFuncs()["truncate"].(func(string, int) string)
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "hello..."},
		{"hello", 5, "hello"},
		{"", 5, ""},
		{"Годовой отчёт", 7, "Годовой..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.length); got != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_Seq(t *testing.T) {
	seq := TemplateFuncs()["seq"].(func(int, int) []int)

	if got := seq(0, 2); len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("seq(0, 2) = %v, want [0 1 2]", got)
	}
	if got := seq(5, 3); got != nil {
		t.Errorf("seq(5, 3) = %v, want nil", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{5 << 20, "5.0 MB"},
		{50 << 20, "50.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestTemplateFuncs_FormHelpers(t *testing.T) {
	funcs := TemplateFuncs()
	values := url.Values{"title": {"Q1"}, "is_published": {"on"}}

	if got := funcs["formValue"].(func(url.Values, string) string)(values, "title"); got != "Q1" {
		t.Errorf("formValue = %q, want Q1", got)
	}
	checked := funcs["checked"].(func(url.Values, string) bool)
	if !checked(values, "is_published") || checked(values, "title") {
		t.Error("checked should only accept checkbox values")
	}

	fieldError := funcs["fieldError"].(func(map[string]string, string) string)
	if got := fieldError(nil, "title"); got != "" {
		t.Errorf("fieldError(nil) = %q, want empty", got)
	}
	if got := fieldError(map[string]string{"title": "Title is required"}, "title"); got != "Title is required" {
		t.Errorf("fieldError = %q", got)
	}

	indexed := funcs["indexed"].(func(string, int, string) string)
	if got := indexed("people", 2, "name"); got != "people.2.name" {
		t.Errorf("indexed = %q, want people.2.name", got)
	}
}

func TestTemplateFuncs_DetailValues(t *testing.T) {
	funcs := TemplateFuncs()

	people := funcs["people"].(func(any) []model.Person)
	if got := people([]model.Person{{Name: "Ann"}}); len(got) != 1 {
		t.Errorf("people() len = %d, want 1", len(got))
	}
	if got := people("not people"); got != nil {
		t.Errorf("people(string) = %v, want nil", got)
	}

	baseName := funcs["baseName"].(func(string) string)
	if got := baseName("http://localhost:8080/uploads/content/docs/1-ab.pdf?x=1"); got != "1-ab.pdf" {
		t.Errorf("baseName = %q, want 1-ab.pdf", got)
	}
}

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/press/1-ab.JPG", true},
		{"/uploads/content/press/1-ab.webp", true},
		{"/uploads/content/docs/1-ab.pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsImageURL(tt.url); got != tt.want {
			t.Errorf("IsImageURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestTemplateFuncs_Dict(t *testing.T) {
	dict := TemplateFuncs()["dict"].(func(...any) map[string]any)

	if got := dict("a", 1, "b"); got != nil {
		t.Error("dict with odd arguments should return nil")
	}
	got := dict("a", 1, 2, "skipped")
	if len(got) != 1 || got["a"] != 1 {
		t.Errorf("dict = %v, want map[a:1]", got)
	}
}
