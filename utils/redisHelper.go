package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/config"
)

func GetCacheLifespan() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 10
	}
	return time.Duration(minutes) * time.Minute
}

// GetOrLoadCache reads key from redis, falling back to load and storing its result.
// Redis failures are not fatal: the loaded value is returned and the cache is skipped.
func GetOrLoadCache[T any](key string, load func() (T, error)) (T, error) {
	var cached T
	exists, err := config.GetRedisObject(key, &cached)
	if err == nil && exists {
		return cached, nil
	}
	if err != nil {
		config.GetLogger().WithField("key", key).Warn("redis read failed: " + err.Error())
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := config.SetRedisObject(key, value, GetCacheLifespan()); err != nil {
		config.GetLogger().WithField("key", key).Warn("redis write failed: " + err.Error())
	}
	return value, nil
}

func ClearCache(keys ...string) error {
	return config.RemoveRedisKey(keys...)
}
