package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"rutapay/internal/models"
	"rutapay/internal/repository"
)

// Queue is the Redis list the worker pool consumes via BRPOP.
const Queue = "rutapay:notifications"

// job is the queue envelope. The id correlates worker log lines with the
// enqueue site.
type job struct {
	ID     string `json:"id"`
	Notice Notice `json:"notice"`
}

// Dispatcher fans out notifications after the financial transaction has
// committed. Delivery is best effort and never reported to the caller: money
// movement must not block on, or roll back for, a notification.
//
// With Redis available the notice is enqueued and a worker inserts it; when
// Redis is absent or the enqueue fails, the insert happens inline. Either
// path swallows failures after logging them.
type Dispatcher struct {
	rdb  *redis.Client
	repo repository.NotificationRepository
}

func NewDispatcher(rdb *redis.Client, repo repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{rdb: rdb, repo: repo}
}

// Dispatch queues or inlines one notice. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notice) {
	if d.rdb != nil {
		j := job{ID: uuid.NewString(), Notice: n}
		payload, err := json.Marshal(j)
		if err == nil {
			if err = d.rdb.LPush(ctx, Queue, payload).Err(); err == nil {
				return
			}
		}
		logrus.WithError(err).WithField("type", n.Type).
			Warn("notification enqueue failed, delivering inline")
	}
	if err := deliver(ctx, d.repo, n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":    n.Type,
			"user_id": n.UserID,
		}).Error("notification dropped")
	}
}

// deliver materializes a notice as a sink row, suppressing duplicates for
// deduplicated event types.
func deliver(ctx context.Context, repo repository.NotificationRepository, n Notice) error {
	if n.DedupField != "" {
		exists, err := repo.ExistsForEvent(ctx, n.Type, n.DedupField, n.DedupID)
		if err != nil {
			return err
		}
		if exists {
			logrus.WithFields(logrus.Fields{
				"type":      n.Type,
				n.DedupField: n.DedupID,
			}).Debug("duplicate notification suppressed")
			return nil
		}
	}

	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}
	return repo.Create(ctx, &models.Notification{
		UserID: n.UserID,
		Title:  n.Title,
		Body:   n.Body,
		Data:   datatypes.JSON(data),
	})
}
