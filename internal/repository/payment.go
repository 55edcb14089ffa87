package repository

import (
	"context"
	"errors"
	"time"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"gorm.io/gorm"
)

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *model.PaymentIntent) error
	FindByIntentID(ctx context.Context, intentID string) (*model.PaymentIntent, error)
	FindOpenByOrder(ctx context.Context, orderID uint) (*model.PaymentIntent, error)
	MarkStatus(ctx context.Context, tx *gorm.DB, intentID string, status model.IntentStatus) error
	ListByUser(ctx context.Context, userID uint) ([]*model.PaymentIntent, error)
}

type paymentIntentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) PaymentIntentRepository {
	return &paymentIntentRepoImpl{
		db: db,
	}
}

func (r *paymentIntentRepoImpl) Create(ctx context.Context, intent *model.PaymentIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

func (r *paymentIntentRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		First(&intent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrIntentNotFound
		}
		return nil, err
	}

	return &intent, nil
}

func (r *paymentIntentRepoImpl) FindOpenByOrder(ctx context.Context, orderID uint) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, model.IntentCreated).
		First(&intent).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrIntentNotFound
		}
		return nil, err
	}

	return &intent, nil
}

func (r *paymentIntentRepoImpl) MarkStatus(ctx context.Context, tx *gorm.DB, intentID string, status model.IntentStatus) error {
	return tx.WithContext(ctx).Model(&model.PaymentIntent{}).
		Where("intent_id = ?", intentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *paymentIntentRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.PaymentIntent, error) {
	var intents []*model.PaymentIntent
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = payment_intents.order_id").
		Where("orders.user_id = ?", userID).
		Order("payment_intents.created_at desc").
		Find(&intents).Error
	if err != nil {
		return nil, err
	}

	return intents, nil
}
