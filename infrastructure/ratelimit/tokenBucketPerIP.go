package ratelimit

import (
	"encoding/json"
	"strconv"
	"time"

	"cloverlink.io/infrastructure/env"
	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
)

// defaultRequestsPerSecond suits a single-merchant checkout: one shopper
// clicking through a payment form, not a fleet of API consumers.
const defaultRequestsPerSecond float64 = 5

// TokenBucketPerIP throttles each client IP. The ceiling comes from
// RATE_LIMIT_RPS so load-test and production deployments can tune it without
// a rebuild.
func TokenBucketPerIP() gin.HandlerFunc {
	message := map[string]any{
		"message": "Too many payment requests from this address. Please wait a moment and try again.",
	}
	jsonMessage, _ := json.Marshal(message)

	tlbthLimiter := tollbooth.NewLimiter(requestsPerSecond(), &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Minute * 1,
	})
	tlbthLimiter.SetMessageContentType("application/json")
	tlbthLimiter.SetMessage(string(jsonMessage))

	return tollbooth_gin.LimitHandler(tlbthLimiter)
}

func requestsPerSecond() float64 {
	value, err := strconv.ParseFloat(env.GetOrDefault("RATE_LIMIT_RPS", ""), 64)
	if err != nil || value <= 0 {
		return defaultRequestsPerSecond
	}
	return value
}
