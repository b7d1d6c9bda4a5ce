// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func sign(code, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(code))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}

// GenerateSessionToken binds a municipality code to the server's salt.
// Format: base64url(code) "." base64url(HMAC-SHA256(code)).
// Tokens are deterministic and never expire.
func GenerateSessionToken(code, salt string) string {
	enc := strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(code)), "=")
	return enc + "." + sign(code, salt)
}

// ValidateSessionToken checks the signature and returns the municipality code.
func ValidateSessionToken(token, salt string) (string, error) {
	enc, mac, ok := strings.Cut(token, ".")
	if !ok || enc == "" || mac == "" {
		return "", ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", ErrInvalidToken
	}
	code := string(raw)

	if !hmac.Equal([]byte(mac), []byte(sign(code, salt))) {
		return "", ErrInvalidToken
	}
	return code, nil
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
