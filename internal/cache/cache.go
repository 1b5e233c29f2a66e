package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/upload-service/internal/storage"
	"github.com/princekumarofficial/upload-service/internal/types"
)

// Cache key patterns
const (
	KeyPrefix     = "uploads:"
	RecentListKey = "uploads:recent:%s:%d" // uploads:recent:statuses:limit
)

// ListCacheDuration is how long a ledger listing stays cached.
const ListCacheDuration = 30 * time.Second

// CachedLedger wraps a ledger with a Redis read-through cache for listings
type CachedLedger struct {
	ledger storage.Ledger
	redis  *redis.Client
}

// NewCachedLedger creates a new cached ledger
func NewCachedLedger(ledger storage.Ledger, redisClient *redis.Client) *CachedLedger {
	return &CachedLedger{
		ledger: ledger,
		redis:  redisClient,
	}
}

func listKey(statuses []types.UploadStatus, limit int) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	filter := strings.Join(parts, ",")
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf(RecentListKey, filter, limit)
}

// ListUploads returns a cached listing or fetches it from the ledger
func (c *CachedLedger) ListUploads(ctx context.Context, statuses []types.UploadStatus, limit int) ([]types.UploadRecord, error) {
	key := listKey(statuses, limit)

	// Try cache first
	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var records []types.UploadRecord
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			return records, nil
		}
	}

	// Cache miss - fetch from the ledger
	records, err := c.ledger.ListUploads(ctx, statuses, limit)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(records)
	if err := c.redis.Set(ctx, key, data, ListCacheDuration).Err(); err != nil {
		slog.Warn("failed to cache upload listing", slog.String("error", err.Error()))
	}

	return records, nil
}

func (c *CachedLedger) RecordUpload(ctx context.Context, rec types.UploadRecord) (string, error) {
	id, err := c.ledger.RecordUpload(ctx, rec)
	if err != nil {
		return "", err
	}

	c.InvalidateListings(ctx)
	return id, nil
}

// ScanUploads is not cached; it serves background walks, not listings.
func (c *CachedLedger) ScanUploads(ctx context.Context, status types.UploadStatus, afterID string, limit int) ([]types.UploadRecord, error) {
	return c.ledger.ScanUploads(ctx, status, afterID, limit)
}

func (c *CachedLedger) MarkMissing(ctx context.Context, id string) error {
	if err := c.ledger.MarkMissing(ctx, id); err != nil {
		return err
	}

	c.InvalidateListings(ctx)
	return nil
}

// InvalidateListings clears every cached listing
func (c *CachedLedger) InvalidateListings(ctx context.Context) {
	iter := c.redis.Scan(ctx, 0, "uploads:recent:*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("failed to scan cached listings", slog.String("error", err.Error()))
		return
	}

	if len(keys) > 0 {
		c.redis.Del(ctx, keys...)
	}
}
