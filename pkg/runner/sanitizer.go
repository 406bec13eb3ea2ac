package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// EnvMaxInputSize overrides DefaultMaxInputSize when set to a positive integer.
const EnvMaxInputSize = "SCRIPTFLOW_MAX_INPUT_SIZE"

// DefaultMaxInputSize bounds a single answer, in bytes.
var DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("answer exceeds maximum size")
	ErrInvalidUTF8   = errors.New("answer is not valid UTF-8")
)

// SanitizeInput prepares a raw answer for resolution. Answers over
// MaxInputSize or with broken UTF-8 are rejected whole; control characters
// other than newline, carriage return and tab are dropped.
func SanitizeInput(answer string) (string, error) {
	if limit := MaxInputSize(); len(answer) > limit {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(answer), limit)
	}
	if !utf8.ValidString(answer) {
		return "", ErrInvalidUTF8
	}
	return stripControl(answer), nil
}

func stripControl(s string) string {
	for i, r := range s {
		if dropRune(r) {
			// Only allocate once something actually has to go.
			out := []rune(s[:i])
			for _, r := range s[i:] {
				if !dropRune(r) {
					out = append(out, r)
				}
			}
			return string(out)
		}
	}
	return s
}

func dropRune(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return unicode.IsControl(r)
}

// MaxInputSize reports the active answer limit in bytes.
func MaxInputSize() int {
	n, err := strconv.Atoi(os.Getenv(EnvMaxInputSize))
	if err != nil || n <= 0 {
		return DefaultMaxInputSize
	}
	return n
}
