package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
)

// CacheStats represents cache statistics for the ledger listings
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys_sample"`
	KeyCount       int      `json:"cached_listings"`
}

// GetCacheStats returns ledger cache statistics
// @Summary Ledger cache statistics
// @Tags uploads
// @Produce json
// @Success 200 {object} response.Response "Cache stats retrieved"
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /uploads/cache [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true}

		if _, err := redisClient.Ping(ctx).Result(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys, err := redisClient.Keys(ctx, KeyPrefix+"*").Result()
		if err == nil {
			stats.KeyCount = len(keys)
			if len(keys) > 10 {
				keys = keys[:10] // Show only first 10
			}
			stats.CacheKeys = keys
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}
