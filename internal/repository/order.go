package repository

import (
	"context"
	"errors"
	"time"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindPendingByUser(ctx context.Context, userID uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	MarkStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.OrderStatus) error
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindPendingByUser(ctx context.Context, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND status = ?", userID, model.OrderPending).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkStatus applies a single guarded transition. The WHERE clause pins the
// expected current status, so an order already in a terminal state is left
// untouched and the caller sees ErrOrderConflict.
func (r *orderRepoImpl) MarkStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.OrderStatus) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrOrderConflict
	}

	return nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
