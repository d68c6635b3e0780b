package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKeepsOddTrailingKey(t *testing.T) {
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, sanitizeKVs([]interface{}{"a", 1, "dangling"}))
}
