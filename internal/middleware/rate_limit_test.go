package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucket_DrainAndRefill(t *testing.T) {
	tb := NewTokenBucket(2, 1)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, tb.Allow())
}
