package form

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/devcraft/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB, well above the longest valid field.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "DEVCRAFT_MAX_INPUT_SIZE"
)

// Sanitize cleans a raw field value by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
func Sanitize(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Reject rather than truncate so the stored value is what the visitor typed.
		return "", fmt.Errorf("%w: size=%d limit=%d", domain.ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", domain.ErrInvalidUTF8
	}

	// Keep \n, \t and \r (messages are multi-line); drop ESC, NUL, BEL and friends.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
