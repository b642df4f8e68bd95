package errors

import (
	"math"
	"net/url"
	"strings"
	"unicode"
)

// Input limits enforced by the validators.
const (
	MaxQueryLength = 256
	MaxLyricBytes  = 64 << 10
	MinSpeed       = 0.1
	MaxSpeed       = 10.0
)

// ValidateQuery checks a lyrics search query: non-blank, at most
// MaxQueryLength bytes, no control characters.
func ValidateQuery(q string) error {
	if strings.TrimSpace(q) == "" {
		return New(ErrCodeInvalidInput, "query cannot be empty")
	}
	if len(q) > MaxQueryLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", MaxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "query contains control characters")
		}
	}
	return nil
}

// ValidateLyricText checks raw lyric text: non-blank, at most
// MaxLyricBytes, no NUL bytes. Newlines and tabs are allowed.
func ValidateLyricText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidInput, "lyric text cannot be empty")
	}
	if len(text) > MaxLyricBytes {
		return New(ErrCodeInvalidInput, "lyric text too large (max %d bytes)", MaxLyricBytes)
	}
	if strings.ContainsRune(text, 0) {
		return New(ErrCodeInvalidInput, "lyric text contains NUL bytes")
	}
	return nil
}

// ValidateSpeed checks a playback speed multiplier: finite and within
// [MinSpeed, MaxSpeed].
func ValidateSpeed(speed float64) error {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return New(ErrCodeInvalidSpeed, "speed must be a positive number, got %v", speed)
	}
	if speed < MinSpeed {
		return New(ErrCodeInvalidSpeed, "speed too low (min %v), got %v", MinSpeed, speed)
	}
	if speed > MaxSpeed {
		return New(ErrCodeInvalidSpeed, "speed too high (max %v), got %v", MaxSpeed, speed)
	}
	return nil
}

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}
	return nil
}
