package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const defaultRequestsPerMinute = 100

// RateLimiter limits requests per client IP. Counters live in Redis when a
// client is given so that replicas share them, in memory otherwise.
func RateLimiter(perMinute int64, client *redis.Client) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = defaultRequestsPerMinute
	}
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  perMinute,
	}

	store := memory.NewStore()
	if client != nil {
		if rs, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "eventease:ratelimit"}); err == nil {
			store = rs
		}
	}

	// 📊 Limiter instance
	instance := limiter.New(store, rate)

	// 🚦 Gin-compatible middleware
	return ginlimiter.NewMiddleware(instance)
}
