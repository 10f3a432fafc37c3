// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"content/articles/1700000000000-deadbeef.pdf", false},
		{"a/b", false},
		{"", true},
		{"/abs/key", true},
		{"dir/", true},
		{"a//b", true},
		{"a/../b", true},
		{"../escape", true},
		{"./here", true},
		{`a\b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := CleanKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("CleanKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestSafeJoin(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoin(base, "content/articles/x.pdf")
	if err != nil {
		t.Fatalf("SafeJoin: %v", err)
	}
	want := filepath.Join(base, "content", "articles", "x.pdf")
	if got != want {
		t.Errorf("SafeJoin = %q, want %q", got, want)
	}

	_, err = SafeJoin(base, "../outside.txt")
	if !errors.Is(err, ErrPathTraversal) {
		t.Errorf("SafeJoin traversal err = %v, want ErrPathTraversal", err)
	}
}
