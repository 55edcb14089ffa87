package service

import (
	"context"
	"errors"

	"movieshop/internal/apperr"
	"movieshop/internal/dto"
	"movieshop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	AddItem(ctx context.Context, userID, movieID uint, qty int32) error
	RemoveItem(ctx context.Context, userID, movieID uint) error
	Clear(ctx context.Context, userID uint) error
	Detail(ctx context.Context, userID uint) (*dto.CartDetailResponse, error)
}

type cartServiceImpl struct {
	db        *gorm.DB
	cartRepo  repository.CartRepository
	movieRepo repository.MovieRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	movieRepo repository.MovieRepository,
) CartService {
	return &cartServiceImpl{
		db:        db,
		cartRepo:  cartRepo,
		movieRepo: movieRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, movieID uint, qty int32) error {
	if qty < 1 {
		return apperr.ErrInvalidQuantity
	}

	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	var inCart int32
	existing, err := s.cartRepo.FindItem(ctx, cart.ID, movieID)
	if err != nil && !errors.Is(err, apperr.ErrCartItemNotFound) {
		return err
	}
	if existing != nil {
		inCart = existing.Quantity
	}

	// the availability check here is advisory; checkout re-validates under
	// the transaction
	if inCart+qty > movie.Availability {
		return apperr.ErrUnavailable
	}

	return s.cartRepo.UpsertItem(ctx, cart.ID, movieID, inCart+qty)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, movieID uint) error {
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return err
	}
	if cart.ID == 0 {
		return apperr.ErrCartItemNotFound
	}

	return s.cartRepo.DeleteItem(ctx, cart.ID, movieID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID uint) error {
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return err
	}
	if cart.ID == 0 || len(cart.Items) == 0 {
		return apperr.ErrEmptyCart
	}

	return s.cartRepo.ClearItems(ctx, s.db, cart.ID)
}

// Detail computes the total at read time so catalog price changes before
// checkout are always reflected.
func (s *cartServiceImpl) Detail(ctx context.Context, userID uint) (*dto.CartDetailResponse, error) {
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartDetailResponse{
		Lines: make([]dto.CartLine, 0, len(cart.Items)),
		Total: decimal.Zero,
	}

	for _, item := range cart.Items {
		movie, err := s.movieRepo.FindByID(ctx, item.MovieID)
		if err != nil {
			return nil, err
		}

		lineTotal := movie.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		resp.Lines = append(resp.Lines, dto.CartLine{
			MovieID:   movie.ID,
			Title:     movie.Title,
			UnitPrice: movie.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		resp.Total = resp.Total.Add(lineTotal)
	}

	return resp, nil
}
