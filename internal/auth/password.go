// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth hashes and verifies dashboard operator passwords with argon2id.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("auth: malformed password hash")

// Params are the argon2id cost parameters encoded into every hash.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams follows the OWASP m=19456, t=2, p=1 profile.
var DefaultParams = Params{
	Time:    2,
	Memory:  19 * 1024,
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// encoded is a decoded "$argon2id$v=19$m=..,t=..,p=..$salt$key" string.
type encoded struct {
	params Params
	salt   []byte
	key    []byte
}

func decode(hash string) (encoded, error) {
	var e encoded

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return e, ErrMalformedHash
	}
	if parts[1] != "argon2id" {
		return e, fmt.Errorf("%w: unsupported variant %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return e, fmt.Errorf("%w: version %q", ErrMalformedHash, parts[2])
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &e.params.Memory, &e.params.Time, &e.params.Threads); err != nil {
		return e, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}

	var err error
	if e.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return e, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if e.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return e, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	e.params.SaltLen = uint32(len(e.salt))
	e.params.KeyLen = uint32(len(e.key))

	return e, nil
}

// Hash derives an encoded argon2id hash of password using p.
func (p Params) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Outdated reports whether hash was produced with cost parameters other than p.
// Undecodable hashes are always outdated.
func (p Params) Outdated(hash string) bool {
	e, err := decode(hash)
	if err != nil {
		return true
	}
	return e.params.Memory != p.Memory || e.params.Time != p.Time || e.params.Threads != p.Threads
}

// HashPassword hashes password with DefaultParams.
func HashPassword(password string) (string, error) {
	return DefaultParams.Hash(password)
}

// CheckPassword reports whether password matches hash. The comparison runs in
// constant time with the parameters stored in the hash.
func CheckPassword(password, hash string) (bool, error) {
	e, err := decode(hash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), e.salt, e.params.Time, e.params.Memory, e.params.Threads, e.params.KeyLen)
	return subtle.ConstantTimeCompare(key, e.key) == 1, nil
}

// NeedsRehash reports whether hash should be replaced after a successful login.
func NeedsRehash(hash string) bool {
	return DefaultParams.Outdated(hash)
}
