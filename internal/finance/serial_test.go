package finance

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSerialNumber(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "25030042TF", NewSerialNumber(now, func(int) int { return 42 }))
	assert.Equal(t, "25039999TF", NewSerialNumber(now, func(n int) int { return n - 1 }))

	pattern := regexp.MustCompile(`^\d{4}\d{4}TF$`)
	assert.Regexp(t, pattern, NewSerialNumber(now, func(int) int { return 7 }))
}
