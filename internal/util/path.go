// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is wrapped by errors returned for keys escaping their root.
var ErrPathTraversal = fmt.Errorf("path traversal detected")

// CleanKey validates a slash-separated object key. Keys must be relative,
// must not contain ".." segments and must not end in a slash.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrPathTraversal, key)
		}
	}
	return path.Clean(key), nil
}

// SafeJoin joins a slash-separated key under base and verifies the result
// stays inside base.
func SafeJoin(base string, key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}

	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	target := filepath.Join(absBase, filepath.FromSlash(clean))

	if !strings.HasPrefix(target, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, key)
	}
	return target, nil
}
