// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package uikit provides the template helpers and pagination view model
// shared by the dashboard templates.
package uikit

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/contentdesk/internal/model"
)

// TemplateFuncs returns a template.FuncMap with pure helper functions.
//
// Callers can merge renderer-specific functions on top:
//
//	funcs := uikit.TemplateFuncs()
//	funcs["markdown"] = renderMarkdown
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"hasPrefix": strings.HasPrefix,
		"truncate": func(s string, length int) string {
			if len([]rune(s)) <= length {
				return s
			}
			return string([]rune(s)[:length]) + "..."
		},
		"join": strings.Join,

		// Math
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},

		// Time
		"now": time.Now,
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},

		// JSON
		"toJSON": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return template.JS(b)
		},

		// Formatting
		"formatBytes": FormatBytes,

		// Forms
		"formValue": func(v url.Values, key string) string {
			return v.Get(key)
		},
		"fieldError": func(errs map[string]string, key string) string {
			return errs[key]
		},
		"checked": func(v url.Values, key string) bool {
			switch v.Get(key) {
			case "1", "on", "true", "yes":
				return true
			}
			return false
		},
		// indexed names the inputs of repeated rows, e.g. people.2.name
		"indexed": func(prefix string, i int, field string) string {
			return prefix + "." + strconv.Itoa(i) + "." + field
		},

		// Detail values
		"people": func(v any) []model.Person {
			ps, _ := v.([]model.Person)
			return ps
		},
		"strings": func(v any) []string {
			ss, _ := v.([]string)
			return ss
		},
		"isImage": IsImageURL,
		"baseName": func(raw string) string {
			if u, err := url.Parse(raw); err == nil {
				raw = u.Path
			}
			return path.Base(raw)
		},

		// Data structures
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
	}
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// IsImageURL reports whether raw points at a file with an image extension.
func IsImageURL(raw string) bool {
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	switch strings.ToLower(path.Ext(raw)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
