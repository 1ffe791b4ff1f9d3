// Package auth implements the pre-shared-key authentication and transport
// encryption of the hidlink control API: PBKDF2 key stretching, an
// HMAC-based handshake, and a chacha20poly1305-wrapped connection.
package auth

import (
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"errors"
)

const (
	autoGenKeyLength = 16
	base62Chars      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	pbkdf2Iterations = 100000
	pbkdf2Salt       = "hidlink-key-v1"
)

// GenerateKey creates a random 16-char base62 key for the key file.
func GenerateKey() (string, error) {
	randomBytes := make([]byte, autoGenKeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	key := make([]byte, autoGenKeyLength)
	for i, b := range randomBytes {
		key[i] = base62Chars[int(b)%62]
	}
	return string(key), nil
}

// DeriveKey stretches a password to the 32 bytes chacha20poly1305 needs.
func DeriveKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	return pbkdf2.Key(sha256.New, password, []byte(pbkdf2Salt), pbkdf2Iterations, 32)
}

// DeriveSessionKey mixes the stretched key with both handshake nonces.
// Plain SHA mixing keeps third-party client implementations simple.
func DeriveSessionKey(key, serverNonce, clientNonce []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(serverNonce)
	h.Write(clientNonce)
	h.Write([]byte("hidlink-session-v1"))
	return h.Sum(nil)
}
