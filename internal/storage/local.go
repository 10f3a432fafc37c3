// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/olegiv/contentdesk/internal/util"
)

// URLPrefix is the path the local backend's files are served under.
const URLPrefix = "/uploads/"

// LocalStore keeps objects on the filesystem as <dir>/<bucket>/<key>.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root directory, for serving files under URLPrefix.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) path(bucket, key string) (string, error) {
	if !util.IsValidSlug(bucket) {
		return "", fmt.Errorf("invalid bucket name %q", bucket)
	}
	return util.SafeJoin(s.dir, bucket+"/"+key)
}

// Put writes obj to disk and returns its URL under URLPrefix.
func (s *LocalStore) Put(_ context.Context, obj Object) (string, error) {
	target, err := s.path(obj.Bucket, obj.Key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("closing file: %w", err)
	}

	return s.baseURL + URLPrefix + obj.Bucket + "/" + obj.Key, nil
}

// Delete removes the file. Missing files are ignored.
func (s *LocalStore) Delete(_ context.Context, bucket, key string) error {
	target, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// Ping checks that the root directory exists.
func (s *LocalStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
