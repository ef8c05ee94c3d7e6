package service

import (
	"context"
	"encoding/json"
	"k12_kg_backend/pkg/logger"
	"k12_kg_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const analyticsCachePrefix = "kg:analytics:"

// AnalyticsCache 统计结果缓存；Redis 未启用时所有操作均为空操作
type AnalyticsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAnalyticsCache(rdb *redis.Client, ttl time.Duration) *AnalyticsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AnalyticsCache{rdb: rdb, ttl: ttl}
}

func (c *AnalyticsCache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	val, err := c.rdb.Get(ctx, analyticsCachePrefix+key).Result()
	if err == redis.Nil {
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err != nil {
		logger.Log.Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		logger.Log.Warn("Analytics cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	monitoring.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (c *AnalyticsCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, analyticsCachePrefix+key, data, c.ttl).Err(); err != nil {
		logger.Log.Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate 清除全部统计缓存，在题目或标注变更后调用
func (c *AnalyticsCache) invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, analyticsCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("Analytics cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Analytics cache invalidation failed", zap.Error(err))
	}
}
