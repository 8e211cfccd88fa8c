package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func limitedHandler(t *testing.T, client *redis.Client, enabled bool) http.Handler {
	t.Helper()
	limit := RateLimit(client, "booking", 10, time.Minute, enabled, zap.NewNop())
	return limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	rec := httptest.NewRecorder()
	limitedHandler(t, nil, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitPassThroughWhenDisabled(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	rec := httptest.NewRecorder()
	limitedHandler(t, client, false).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	// Nothing listens on this address, so every INCR errors out and the
	// request must still go through.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
	defer client.Close()

	rec := httptest.NewRecorder()
	limitedHandler(t, client, true).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
