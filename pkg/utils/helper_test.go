package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, ParseInt("7", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("0", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))
}

func TestGenerateBookingRef(t *testing.T) {
	pattern := regexp.MustCompile(`^TRV-\d{8}-\d{6}-\d{4}$`)

	ref := GenerateBookingRef()
	assert.Regexp(t, pattern, ref)
}
