package repository

import (
	"context"
	"time"

	"movieshop/internal/model"

	"gorm.io/gorm"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, eventID, eventType string) error
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) Exists(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	return count > 0, err
}

func (r *webhookEventRepositoryImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, eventID string, eventType string) error {
	return tx.WithContext(ctx).Create(&model.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}).Error
}
