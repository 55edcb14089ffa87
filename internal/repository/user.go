package repository

import (
	"context"
	"errors"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, userID uint) (*model.User, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateEmail
	}
	return err
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAuth
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAuth
		}
		return nil, err
	}

	return &user, nil
}
