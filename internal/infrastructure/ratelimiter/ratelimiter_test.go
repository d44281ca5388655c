package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client"), "press %d within burst", i)
	}
	assert.False(t, rl.Allow("client"), "burst exhausted")
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1})
	defer rl.Close()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestTokensRefill(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 100, MaxBurst: 1})
	defer rl.Close()

	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allow("client"), "tokens refill over time")
}

func TestRemainingCapsAtBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1000, MaxBurst: 5})
	defer rl.Close()

	assert.Equal(t, 5, rl.Remaining("client"))

	rl.Allow("client")
	assert.Less(t, rl.Remaining("client"), 5)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 5, rl.Remaining("client"), "refill never exceeds burst")
}

func TestGetSourceKeyPrefersHeader(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})
	defer rl.Close()

	r := httptest.NewRequest("GET", "/api/rooms", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	assert.Equal(t, "10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", rl.GetSourceKey(r))
}
