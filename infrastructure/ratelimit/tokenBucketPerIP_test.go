package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimitedEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	server.Use(TokenBucketPerIP())
	server.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
	return server
}

func TestRequestsPerSecondFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"unset falls back to default", "", defaultRequestsPerSecond},
		{"garbage falls back to default", "fast", defaultRequestsPerSecond},
		{"zero falls back to default", "0", defaultRequestsPerSecond},
		{"negative falls back to default", "-3", defaultRequestsPerSecond},
		{"valid value is used", "25", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RATE_LIMIT_RPS", tt.value)
			if got := requestsPerSecond(); got != tt.want {
				t.Errorf("requestsPerSecond() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenBucketLimitsRepeatedRequests(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "1")
	server := newLimitedEngine()

	first := httptest.NewRecorder()
	server.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	server.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second immediate request status = %d, want 429", second.Code)
	}
	if !strings.Contains(second.Body.String(), "Too many payment requests") {
		t.Errorf("throttled response body = %q, want the checkout throttle message", second.Body.String())
	}
}
