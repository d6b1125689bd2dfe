package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSplitPart(t *testing.T) {
	part, err := GetSplitPart("a/b/c", "/", 1)
	assert.NoError(t, err)
	assert.Equal(t, "b", part)

	_, err = GetSplitPart("a/b", "/", 5)
	assert.Error(t, err)
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "2 room apartment", CollapseWhitespace("  2 room\n\n apartment \t"))
	assert.Equal(t, "", CollapseWhitespace("  \n "))
}

func TestStripSpaces(t *testing.T) {
	assert.Equal(t, "1234", StripSpaces(" 1 234 "))
}
