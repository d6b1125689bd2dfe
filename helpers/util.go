package helpers

import (
	"errors"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// CollapseWhitespace trims a string and collapses every internal
// whitespace run (including newlines) into a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripSpaces removes every space from a string, used for counter text
// that the site renders with thousands separators.
func StripSpaces(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}
