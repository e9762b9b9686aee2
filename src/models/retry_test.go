package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicyBackoff(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BackoffUnit: 5 * time.Second}

	assert.Equal(t, 5*time.Second, policy.Backoff(1))
	assert.Equal(t, 10*time.Second, policy.Backoff(2))
	assert.Equal(t, 15*time.Second, policy.Backoff(3))

	// attempts below 1 are treated as the first attempt
	assert.Equal(t, 5*time.Second, policy.Backoff(0))
}

func TestStrikeRangeContains(t *testing.T) {
	r := StrikeRange{Low: 49100, High: 52900}

	assert.True(t, r.Contains(49100))
	assert.True(t, r.Contains(52900))
	assert.True(t, r.Contains(50000))
	assert.False(t, r.Contains(49000))
	assert.False(t, r.Contains(53000))
}
