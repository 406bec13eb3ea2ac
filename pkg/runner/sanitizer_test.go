package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_RejectsOversizedAnswers(t *testing.T) {
	limit := DefaultMaxInputSize

	_, err := SanitizeInput(strings.Repeat("y", limit))
	assert.NoError(t, err)

	got, err := SanitizeInput(strings.Repeat("y", limit+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.Empty(t, got, "oversized answers are rejected, not truncated")
}

func TestSanitizeInput_StripsControlCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain answer", "Heaven and Hell", "Heaven and Hell"},
		{"Multi-line answer", "Yes\r\nbecause\tI said", "Yes\r\nbecause\tI said"},
		{"Terminal escape", "\x1b[1mYes\x1b[0m", "[1mYes[0m"},
		{"Null byte", "N\x00o", "No"},
		{"Bell", "Sure\x07", "Sure"},
		{"Accents kept", "Não sei", "Não sei"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, MaxInputSize())

	_, err := SanitizeInput("Reincarnation")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("Nothing")
	assert.NoError(t, err)

	t.Setenv(EnvMaxInputSize, "lots")
	assert.Equal(t, DefaultMaxInputSize, MaxInputSize(), "unparsable values fall back to the default")
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
