package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterBurstThenDeny(t *testing.T) {
	l := NewMemoryLimiter(3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "ip")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other-ip")
	assert.True(t, ok)
}

func TestMemoryLimiterEvictsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(2)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	for _, key := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		_, err := l.Allow(ctx, key)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, l.Len())

	clock = clock.Add(time.Minute)
	_, _ = l.Allow(ctx, "10.0.0.1")
	assert.Equal(t, 3, l.Len(), "nothing is idle long enough yet")

	clock = clock.Add(memoryIdleTTL)
	_, _ = l.Allow(ctx, "10.0.0.4")
	assert.Equal(t, 1, l.Len(), "only the fresh key remains")

	ok, _ := l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "an evicted key starts over with a full bucket")
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serve := func(l Limiter) int {
		r := gin.New()
		r.POST("/api/apply", Throttle(l, "apply", quietLogger()), func(c *gin.Context) { c.Status(http.StatusCreated) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/apply", nil))
		return w.Code
	}

	l := NewMemoryLimiter(1)
	assert.Equal(t, http.StatusCreated, serve(l))
	assert.Equal(t, http.StatusTooManyRequests, serve(l))
	assert.Equal(t, http.StatusCreated, serve(brokenLimiter{}))
	assert.Equal(t, http.StatusCreated, serve(nil))
}

func TestRedisLimiterDisabledBudgetAllows(t *testing.T) {
	l := NewRedisLimiter(nil, 0, time.Minute)
	ok, err := l.Allow(context.Background(), "ip")
	require.NoError(t, err)
	assert.True(t, ok)
}
