package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	logrus "github.com/sirupsen/logrus"
)

// InitRedis connects the notification job queue. Redis is optional: when
// REDIS_URL is unset or the server is unreachable the caller gets nil and
// notifications are delivered inline instead of through the worker pool.
func InitRedis() *redis.Client {
	url := getEnv("REDIS_URL", "")
	if url == "" {
		logrus.Info("REDIS_URL not set – notification queue disabled, delivering inline")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logrus.WithError(err).Warn("invalid REDIS_URL – notification queue disabled")
		return nil
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("redis unreachable – notification queue disabled")
		return nil
	}

	return rdb
}
