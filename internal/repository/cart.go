package repository

import (
	"context"
	"errors"
	"time"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*model.Cart, error)
	GetWithItems(ctx context.Context, userID uint) (*model.Cart, error)
	FindItem(ctx context.Context, cartID, movieID uint) (*model.CartItem, error)
	UpsertItem(ctx context.Context, cartID, movieID uint, qty int32) error
	DeleteItem(ctx context.Context, cartID, movieID uint) error
	ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) GetOrCreate(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: userID}
		if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) GetWithItems(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Cart{UserID: userID}, nil
		}
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindItem(ctx context.Context, cartID, movieID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND movie_id = ?", cartID, movieID).
		First(&item).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCartItemNotFound
		}
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) UpsertItem(ctx context.Context, cartID, movieID uint, qty int32) error {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND movie_id = ?", cartID, movieID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&model.CartItem{
			CartID:   cartID,
			MovieID:  movieID,
			Quantity: qty,
			AddedAt:  time.Now(),
		}).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&item).
		Update("quantity", qty).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, cartID, movieID uint) error {
	result := r.db.WithContext(ctx).
		Where("cart_id = ? AND movie_id = ?", cartID, movieID).
		Delete(&model.CartItem{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.ErrCartItemNotFound
	}

	return nil
}

func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error {
	return tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
