package service

import (
	"context"
	"errors"

	"movieshop/internal/apperr"
	"movieshop/internal/model"
	"movieshop/internal/notification"
	"movieshop/internal/repository"
	"movieshop/internal/token"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authServiceImpl struct {
	userRepo   repository.UserRepository
	tokenMaker *token.Maker
	dispatcher *notification.Dispatcher
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenMaker *token.Maker,
	dispatcher *notification.Dispatcher,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenMaker: tokenMaker,
		dispatcher: dispatcher,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.ErrDuplicateEmail
	} else if !errors.Is(err, apperr.ErrAuth) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.dispatcher.Enqueue(ctx, notification.TemplateAccountWelcome, user.Email, map[string]interface{}{
		"email": user.Email,
	})

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.ErrAuth
	}

	return s.tokenMaker.Issue(user.ID, user.Role)
}
