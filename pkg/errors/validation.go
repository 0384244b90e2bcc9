package errors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Width bounds accepted from users. Anything wider than MaxWidth is almost
// certainly a typo and would only produce a single enormous row.
const (
	MinWidth = 1
	MaxWidth = 16384
)

// ValidateWidth checks a container width supplied by a user.
func ValidateWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidWidth, "width must be a finite number")
	}
	if w < MinWidth || w > MaxWidth {
		return New(ErrCodeInvalidWidth, "width must be between %d and %d, got %v", MinWidth, MaxWidth, w)
	}
	return nil
}

// ParseWidth parses and validates a width string, as found in query
// parameters and flags.
func ParseWidth(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidWidth, err, "width %q is not a number", s)
	}
	if err := ValidateWidth(w); err != nil {
		return 0, err
	}
	return w, nil
}

// themeIDRegex matches theme identifiers such as "warmVintage" or "dark-2".
var themeIDRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ValidateThemeID checks the shape of a theme identifier. Whether the theme
// exists is the preference store's concern.
func ValidateThemeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTheme, "theme cannot be empty")
	}
	if !themeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidTheme, "invalid theme identifier: %q", id)
	}
	return nil
}

// ValidateIdentifier checks the shape of a content identifier such as a
// collection id.
func ValidateIdentifier(kind, id string) error {
	if !themeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s identifier: %q", kind, id)
	}
	return nil
}

// ValidatePath validates an image path relative to the gallery root.
// It prevents path traversal and rejects control characters.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateFormat checks name against the supported output formats.
func ValidateFormat(name string, supported ...string) error {
	for _, s := range supported {
		if name == s {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", name, strings.Join(supported, ", "))
}
