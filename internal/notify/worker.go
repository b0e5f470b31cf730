package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	logrus "github.com/sirupsen/logrus"

	"rutapay/internal/repository"
)

// StartWorkers launches numWorkers goroutines consuming the notification
// queue. Each blocks on BRPOP — zero CPU when idle.
func StartWorkers(ctx context.Context, rdb *redis.Client, repo repository.NotificationRepository, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, repo, i)
	}
	logrus.Infof("notification worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, repo repository.NotificationRepository, id int) {
	for {
		select {
		case <-ctx.Done():
			logrus.Infof("notification worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, Queue).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, repo, result[1])
		}
	}
}

func processJob(ctx context.Context, repo repository.NotificationRepository, raw string) {
	var j job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		logrus.WithError(err).Error("failed to unmarshal notification job")
		return
	}
	if err := deliver(ctx, repo, j.Notice); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"job_id": j.ID,
			"type":   j.Notice.Type,
		}).Error("notification delivery failed")
		return
	}
	logrus.WithFields(logrus.Fields{
		"job_id":  j.ID,
		"type":    j.Notice.Type,
		"user_id": j.Notice.UserID,
	}).Debug("notification delivered")
}
