package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, requestsPerWindow int, prefix string) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	config := RateLimitConfig{
		RequestsPerWindow: requestsPerWindow,
		Window:            time.Second,
		KeyPrefix:         prefix,
	}

	handler := RateLimitMiddleware(redisClient, config, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return handler, mr
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the window budget get 429", prop.ForAll(
		func(requestsPerWindow int, excessRequests int) bool {
			handler, _ := newLimitedHandler(t, requestsPerWindow, "cart_rate_limit")

			successCount := 0
			blockedCount := 0
			for i := 0; i < requestsPerWindow+excessRequests; i++ {
				req := httptest.NewRequest(http.MethodPost, "/cart/products/15", nil)
				req.RemoteAddr = "192.168.1.100"
				w := httptest.NewRecorder()

				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
					if w.Header().Get("Retry-After") == "" {
						return false
					}
				}
			}

			return successCount == requestsPerWindow && blockedCount == excessRequests
		},
		gen.IntRange(5, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimitHeadersCountDown(t *testing.T) {
	handler, _ := newLimitedHandler(t, 3, "cart_rate_limit_headers")

	for want := 2; want >= 0; want-- {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.RemoteAddr = "192.168.1.101"
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Header().Get("X-RateLimit-Limit") != "3" {
			t.Fatalf("expected limit header 3, got %q", w.Header().Get("X-RateLimit-Limit"))
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(want) {
			t.Fatalf("expected remaining %d, got %q", want, got)
		}
	}
}

func TestRateLimitKeysByUsername(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, "cart_rate_limit_users")

	send := func(username string) int {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.RemoteAddr = "10.0.0.1"
		req = req.WithContext(context.WithValue(req.Context(), UsernameKey, username))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("alice"); code != http.StatusOK {
		t.Fatalf("expected 200 for alice, got %d", code)
	}
	if code := send("bob"); code != http.StatusOK {
		t.Fatalf("expected 200 for bob behind the same address, got %d", code)
	}
	if code := send("alice"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for alice, got %d", code)
	}

	if !mr.Exists("cart_rate_limit_users:user:alice") {
		t.Fatalf("expected per-user key in redis, got %v", mr.Keys())
	}
}

func TestRateLimitFailsOpenWithoutRedis(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, "cart_rate_limit_down")
	mr.Close()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected request to pass while redis is down, got %d", w.Code)
		}
	}
}
