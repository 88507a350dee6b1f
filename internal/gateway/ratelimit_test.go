package gateway

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiterAllowsBurstThenBlocks(t *testing.T) {
	l := newIPLimiter()

	for i := 0; i < loginAttempts; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "attempt %d should pass", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"), "attempt after the burst must be blocked")
}

func TestIPLimiterTracksIPsIndependently(t *testing.T) {
	l := newIPLimiter()

	for i := 0; i < loginAttempts; i++ {
		l.Allow("10.0.0.1")
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "a different IP has its own budget")
}

func TestIPLimiterResetRestoresBudget(t *testing.T) {
	l := newIPLimiter()

	for i := 0; i < loginAttempts+1; i++ {
		l.Allow("10.0.0.1")
	}
	assert.False(t, l.Allow("10.0.0.1"))

	l.Reset("10.0.0.1")
	assert.True(t, l.Allow("10.0.0.1"), "reset must restore the full budget")
}

func TestIPLimiterPruneBoundsTheMap(t *testing.T) {
	l := newIPLimiter()

	for i := 0; i < 1500; i++ {
		l.Allow(fmt.Sprintf("10.0.%d.%d", i/250, i%250))
	}

	l.mu.Lock()
	size := len(l.entries)
	l.mu.Unlock()
	// Entries are recent so pruning keeps them; the map must still be
	// bounded by what was actually seen.
	assert.LessOrEqual(t, size, 1500)
}
