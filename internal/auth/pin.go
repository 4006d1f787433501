package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PIN length bounds. bcrypt only accepts inputs up to 72 bytes.
const (
	MinPINLength = 4
	MaxPINLength = 72
)

var (
	// ErrInvalidPIN is returned when a PIN is too short or not all digits.
	ErrInvalidPIN = errors.New("PIN must be at least 4 digits")
	ErrPINTooLong = errors.New("PIN must be at most 72 digits")
)

// ValidPIN reports whether pin is MinPINLength to MaxPINLength ASCII digits.
func ValidPIN(pin string) bool {
	if len(pin) < MinPINLength || len(pin) > MaxPINLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HashPIN validates pin and returns its bcrypt hash.
func HashPIN(pin string) (string, error) {
	if len(pin) > MaxPINLength {
		return "", ErrPINTooLong
	}
	if !ValidPIN(pin) {
		return "", ErrInvalidPIN
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// CheckPIN reports whether pin matches hash. An empty hash never matches.
func CheckPIN(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
