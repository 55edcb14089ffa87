package service

import (
	"context"

	"movieshop/internal/model"
	"movieshop/internal/repository"
)

type CatalogService interface {
	List(ctx context.Context) ([]*model.Movie, error)
	Get(ctx context.Context, movieID uint) (*model.Movie, error)
}

type catalogServiceImpl struct {
	movieRepo repository.MovieRepository
}

func NewCatalogService(movieRepo repository.MovieRepository) CatalogService {
	return &catalogServiceImpl{
		movieRepo: movieRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context) ([]*model.Movie, error) {
	return s.movieRepo.List(ctx)
}

func (s *catalogServiceImpl) Get(ctx context.Context, movieID uint) (*model.Movie, error) {
	return s.movieRepo.FindByID(ctx, movieID)
}
