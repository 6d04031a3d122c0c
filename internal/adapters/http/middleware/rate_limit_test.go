package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitRouter(config *RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(config))
	router.GET("/api", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hitAPI(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func fixedKey(string) func(*gin.Context) string {
	return func(*gin.Context) string { return "test-key" }
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   5,
		Window:  time.Minute,
		KeyFunc: fixedKey("test-key"),
	})

	for i := 0; i < 5; i++ {
		w := hitAPI(router)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   3,
		Window:  time.Minute,
		KeyFunc: fixedKey("test-key"),
	})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hitAPI(router).Code)
	}

	w := hitAPI(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimit_Headers(t *testing.T) {
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   10,
		Window:  time.Minute,
		KeyFunc: fixedKey("test-key"),
	})

	w := hitAPI(router)

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimit_WindowResets(t *testing.T) {
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   1,
		Window:  50 * time.Millisecond,
		KeyFunc: fixedKey("test-key"),
	})

	require.Equal(t, http.StatusOK, hitAPI(router).Code)
	require.Equal(t, http.StatusTooManyRequests, hitAPI(router).Code)

	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, http.StatusOK, hitAPI(router).Code)
}

func TestRateLimit_IndependentBuckets(t *testing.T) {
	var key string
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   1,
		Window:  time.Minute,
		KeyFunc: func(*gin.Context) string { return key },
	})

	key = "client-a"
	require.Equal(t, http.StatusOK, hitAPI(router).Code)
	require.Equal(t, http.StatusTooManyRequests, hitAPI(router).Code)

	key = "client-b"
	assert.Equal(t, http.StatusOK, hitAPI(router).Code)
}

func TestRateLimit_OnLimitReachedCallback(t *testing.T) {
	var called bool
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   1,
		Window:  time.Minute,
		KeyFunc: fixedKey("test-key"),
		OnLimitReached: func(*gin.Context) {
			called = true
		},
	})

	hitAPI(router)
	hitAPI(router)

	assert.True(t, called)
}

func TestRateLimit_ConcurrentRequests(t *testing.T) {
	const limit = 50
	router := rateLimitRouter(&RateLimitConfig{
		Limit:   limit,
		Window:  time.Minute,
		KeyFunc: fixedKey("test-key"),
	})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if hitAPI(router).Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, allowed)
}

func TestFinancialRateLimit_KeyedByPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(FinancialRateLimit())
	router.PUT("/deposit", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.PUT("/transfer", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPut, "/deposit", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/deposit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different endpoint keeps its own bucket.
	req = httptest.NewRequest(http.MethodPut, "/transfer", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDefaultRateLimitConfig(t *testing.T) {
	config := DefaultRateLimitConfig()

	assert.Equal(t, 100, config.Limit)
	assert.Equal(t, time.Minute, config.Window)
	assert.NotNil(t, config.KeyFunc)
	assert.Nil(t, config.OnLimitReached)
}
