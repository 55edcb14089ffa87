package service

import (
	"context"
	"errors"
	"fmt"

	"movieshop/internal/apperr"
	"movieshop/internal/model"
	"movieshop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Checkout(ctx context.Context, userID uint) (*model.Order, error)
	Cancel(ctx context.Context, userID, orderID uint) error
	Get(ctx context.Context, userID, orderID uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
}

type orderServiceImpl struct {
	db        *gorm.DB
	cartRepo  repository.CartRepository
	movieRepo repository.MovieRepository
	orderRepo repository.OrderRepository
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	movieRepo repository.MovieRepository,
	orderRepo repository.OrderRepository,
) OrderService {
	return &orderServiceImpl{
		db:        db,
		cartRepo:  cartRepo,
		movieRepo: movieRepo,
		orderRepo: orderRepo,
	}
}

// Checkout converts the user's cart into an order snapshot. Availability is
// re-validated and decremented inside one transaction, so of two checkouts
// racing for the last copy exactly one commits. A user who already has a
// pending order gets that order back unchanged.
func (s *orderServiceImpl) Checkout(ctx context.Context, userID uint) (*model.Order, error) {
	cart, err := s.cartRepo.GetWithItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.ID == 0 || len(cart.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	if pending, err := s.orderRepo.FindPendingByUser(ctx, userID); err == nil {
		return pending, nil
	} else if !errors.Is(err, apperr.ErrOrderNotFound) {
		return nil, err
	}

	order := &model.Order{
		UserID: userID,
		Status: model.OrderPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(cart.Items))

		for _, cartItem := range cart.Items {
			movie, err := s.movieRepo.FindByID(ctx, cartItem.MovieID)
			if err != nil {
				return err
			}

			if err := s.movieRepo.DecrementAvailability(ctx, tx, movie.ID, cartItem.Quantity); err != nil {
				return fmt.Errorf("reserve %q: %w", movie.Title, err)
			}

			items = append(items, model.OrderItem{
				MovieID:      movie.ID,
				Quantity:     cartItem.Quantity,
				PriceAtOrder: movie.Price,
			})
			total = total.Add(movie.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))
		}

		order.Items = items
		order.TotalAmount = total

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		return s.cartRepo.ClearItems(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Cancel is allowed from pending only; the reserved copies go back on the
// shelf.
func (s *orderServiceImpl) Cancel(ctx context.Context, userID, orderID uint) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return apperr.ErrOrderNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkStatus(ctx, tx, orderID, model.OrderPending, model.OrderCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := s.movieRepo.IncrementAvailability(ctx, tx, item.MovieID, item.Quantity); err != nil {
				return fmt.Errorf("release inventory: %w", err)
			}
		}

		return nil
	})
}

func (s *orderServiceImpl) Get(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.ErrOrderNotFound
	}

	return order, nil
}

func (s *orderServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}
