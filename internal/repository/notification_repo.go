package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"rutapay/internal/models"
)

// NotificationRepository is the append-only notification sink. Rows are never
// deleted; the only mutation is the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error

	// ExistsForEvent reports whether a notification tagged with the given
	// data.type already references entityID under the given payload field
	// (e.g. "recharge_id"). Used to suppress duplicate fan-out on retries.
	ExistsForEvent(ctx context.Context, eventType, entityField string, entityID uint) (bool, error)

	ListForUser(ctx context.Context, userID uint, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	FindByID(ctx context.Context, id uint) (*models.Notification, error)
	MarkRead(ctx context.Context, n *models.Notification) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ExistsForEvent(ctx context.Context, eventType, entityField string, entityID uint) (bool, error) {
	// json_extract_path_text yields text, so the id compares as a string.
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where(datatypes.JSONQuery("data").Equals(eventType, "type")).
		Where(datatypes.JSONQuery("data").Equals(strconv.FormatUint(uint64(entityID), 10), entityField)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uint, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var notes []models.Notification
	err := q.Find(&notes).Error
	return notes, err
}

func (r *notificationRepo) FindByID(ctx context.Context, id uint) (*models.Notification, error) {
	var note models.Notification
	err := r.db.WithContext(ctx).First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, n *models.Notification) error {
	n.Read = true
	return r.db.WithContext(ctx).Model(n).Update("read", true).Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
