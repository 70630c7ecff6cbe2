// Package secrets provides random key, password, and token generation plus
// keyed hashing for request signing. All randomness comes from crypto/rand.
package secrets

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()-_=+[]{};:,.<>?"
)

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("byte count must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

// RandomKey returns a hex-encoded random key of length chars characters.
// chars must be even and positive.
func RandomKey(chars int) (string, error) {
	if chars <= 0 || chars%2 != 0 {
		return "", fmt.Errorf("key length must be a positive even number, got %d", chars)
	}
	b, err := RandomBytes(chars / 2)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// PasswordOptions selects which character classes a generated password
// draws from. The zero value enables letters and digits only.
type PasswordOptions struct {
	Upper   bool
	Digits  bool
	Special bool
}

// DefaultPasswordOptions enables all character classes.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Upper: true, Digits: true, Special: true}
}

// RandomPassword returns a random password of the given length built from
// the enabled character classes. At least one character from every enabled
// class is guaranteed when length permits.
func RandomPassword(length int, opts PasswordOptions) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}

	alphabet := lowerChars
	required := []string{lowerChars}
	if opts.Upper {
		alphabet += upperChars
		required = append(required, upperChars)
	}
	if opts.Digits {
		alphabet += digitChars
		required = append(required, digitChars)
	}
	if opts.Special {
		alphabet += specialChars
		required = append(required, specialChars)
	}

	out := make([]byte, length)
	for i := range out {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Guarantee one character per enabled class, placed at random positions.
	if length >= len(required) {
		positions, err := randomPositions(length, len(required))
		if err != nil {
			return "", err
		}
		for i, class := range required {
			c, err := randomChar(class)
			if err != nil {
				return "", err
			}
			out[positions[i]] = c
		}
	}

	return string(out), nil
}

// RandomDigits returns a random numeric string of the given length,
// suitable for one-time codes.
func RandomDigits(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("digit count must be positive, got %d", length)
	}
	var sb strings.Builder
	for i := 0; i < length; i++ {
		c, err := randomChar(digitChars)
		if err != nil {
			return "", err
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// SignKey returns the hex-encoded HMAC-SHA256 of value under secret.
func SignKey(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyKey reports whether signature is a valid HMAC-SHA256 of value under
// secret. The comparison is constant-time.
func VerifyKey(value, secret, signature string) bool {
	expected := SignKey(value, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func randomChar(alphabet string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("selecting random character: %w", err)
	}
	return alphabet[idx.Int64()], nil
}

// randomPositions returns count distinct random indexes in [0, length).
func randomPositions(length, count int) ([]int, error) {
	perm := make([]int, length)
	for i := range perm {
		perm[i] = i
	}
	// Partial Fisher-Yates: only the first count slots need shuffling.
	for i := 0; i < count; i++ {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(length-i)))
		if err != nil {
			return nil, fmt.Errorf("shuffling positions: %w", err)
		}
		k := i + int(j.Int64())
		perm[i], perm[k] = perm[k], perm[i]
	}
	return perm[:count], nil
}
