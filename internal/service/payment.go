package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"movieshop/internal/apperr"
	"movieshop/internal/client"
	"movieshop/internal/dto"
	"movieshop/internal/model"
	"movieshop/internal/notification"
	"movieshop/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const signatureHeader = "X-Gateway-Signature"

type PaymentService interface {
	Start(ctx context.Context, userID, orderID uint) (*dto.StartPaymentResponse, error)
	HandleWebhook(ctx context.Context, headers http.Header, body []byte) error
	HistoryByUser(ctx context.Context, userID uint) ([]*model.PaymentIntent, error)
}

type paymentServiceImpl struct {
	db            *gorm.DB
	paymentClient client.PaymentClient
	orderRepo     repository.OrderRepository
	intentRepo    repository.PaymentIntentRepository
	webhookRepo   repository.WebhookEventRepository
	movieRepo     repository.MovieRepository
	userRepo      repository.UserRepository
	dispatcher    *notification.Dispatcher
	logger        zerolog.Logger
}

func NewPaymentService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	orderRepo repository.OrderRepository,
	intentRepo repository.PaymentIntentRepository,
	webhookRepo repository.WebhookEventRepository,
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	dispatcher *notification.Dispatcher,
	logger zerolog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:            db,
		paymentClient: paymentClient,
		orderRepo:     orderRepo,
		intentRepo:    intentRepo,
		webhookRepo:   webhookRepo,
		movieRepo:     movieRepo,
		userRepo:      userRepo,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Start submits the order total to the gateway. Calling it twice for the same
// pending order reuses the open intent instead of creating a second charge.
func (s *paymentServiceImpl) Start(ctx context.Context, userID, orderID uint) (*dto.StartPaymentResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperr.ErrOrderNotFound
	}
	if order.Status != model.OrderPending {
		return nil, apperr.ErrOrderConflict
	}

	if open, err := s.intentRepo.FindOpenByOrder(ctx, orderID); err == nil {
		return &dto.StartPaymentResponse{
			IntentID:    open.IntentID,
			ApprovalURL: open.ApprovalURL,
		}, nil
	} else if !errors.Is(err, apperr.ErrIntentNotFound) {
		return nil, err
	}

	resp, err := s.paymentClient.CreatePayment(ctx, strconv.FormatUint(uint64(orderID), 10), order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("gateway create payment: %w", err)
	}

	intent := &model.PaymentIntent{
		IntentID:    resp.IntentID,
		OrderID:     orderID,
		Status:      model.IntentCreated,
		Amount:      order.TotalAmount,
		ApprovalURL: resp.ApprovalURL,
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}

	return &dto.StartPaymentResponse{
		IntentID:    intent.IntentID,
		ApprovalURL: intent.ApprovalURL,
	}, nil
}

// HandleWebhook applies a gateway callback to the order state machine. The
// signature is verified before anything else; delivery is deduplicated per
// event id and transitions are guarded per order status, so redelivery of the
// same outcome is a logged no-op.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	if err := s.paymentClient.VerifyWebhookSignature(body, headers.Get(signatureHeader)); err != nil {
		return err
	}

	var event model.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode webhook payload: %w", err)
	}

	seen, err := s.webhookRepo.Exists(ctx, event.ID)
	if err != nil {
		return err
	}
	if seen {
		s.logger.Info().Str("event_id", event.ID).Msg("duplicate webhook delivery ignored")
		return nil
	}

	switch event.EventType {
	case model.EventPaymentSucceeded:
		return s.handlePaymentSucceeded(ctx, &event)
	case model.EventPaymentFailed:
		return s.handlePaymentFailed(ctx, &event)
	default:
		s.logger.Warn().Str("event_type", event.EventType).Msg("unhandled webhook event type")
		return nil
	}
}

func (s *paymentServiceImpl) handlePaymentSucceeded(ctx context.Context, event *model.GatewayWebhookEvent) error {
	intent, err := s.intentRepo.FindByIntentID(ctx, event.Resource.IntentID)
	if err != nil {
		return err
	}

	applied := true
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkStatus(ctx, tx, intent.OrderID, model.OrderPending, model.OrderPaid); err != nil {
			if errors.Is(err, apperr.ErrOrderConflict) {
				// order already terminal, record the event and move on
				applied = false
				return s.webhookRepo.MarkProcessed(ctx, tx, event.ID, event.EventType)
			}
			return err
		}

		if err := s.intentRepo.MarkStatus(ctx, tx, intent.IntentID, model.IntentSucceeded); err != nil {
			return err
		}

		return s.webhookRepo.MarkProcessed(ctx, tx, event.ID, event.EventType)
	})
	if err != nil {
		return err
	}

	if !applied {
		s.logger.Info().
			Uint("order_id", intent.OrderID).
			Str("event_id", event.ID).
			Msg("payment confirmation for terminal order ignored")
		return nil
	}

	s.notifyOrderOutcome(ctx, intent, notification.TemplateOrderConfirmation)
	return nil
}

func (s *paymentServiceImpl) handlePaymentFailed(ctx context.Context, event *model.GatewayWebhookEvent) error {
	intent, err := s.intentRepo.FindByIntentID(ctx, event.Resource.IntentID)
	if err != nil {
		return err
	}

	applied := true
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkStatus(ctx, tx, intent.OrderID, model.OrderPending, model.OrderFailed); err != nil {
			if errors.Is(err, apperr.ErrOrderConflict) {
				applied = false
				return s.webhookRepo.MarkProcessed(ctx, tx, event.ID, event.EventType)
			}
			return err
		}

		// the reservation made at checkout is released on failure
		items, err := s.orderRepo.GetOrderItems(ctx, tx, intent.OrderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.movieRepo.IncrementAvailability(ctx, tx, item.MovieID, item.Quantity); err != nil {
				return fmt.Errorf("release inventory: %w", err)
			}
		}

		if err := s.intentRepo.MarkStatus(ctx, tx, intent.IntentID, model.IntentFailed); err != nil {
			return err
		}

		return s.webhookRepo.MarkProcessed(ctx, tx, event.ID, event.EventType)
	})
	if err != nil {
		return err
	}

	if !applied {
		s.logger.Info().
			Uint("order_id", intent.OrderID).
			Str("event_id", event.ID).
			Msg("payment failure for terminal order ignored")
		return nil
	}

	s.notifyOrderOutcome(ctx, intent, notification.TemplatePaymentFailed)
	return nil
}

func (s *paymentServiceImpl) notifyOrderOutcome(ctx context.Context, intent *model.PaymentIntent, template string) {
	order, err := s.orderRepo.FindByID(ctx, intent.OrderID)
	if err != nil {
		s.logger.Error().Err(err).Uint("order_id", intent.OrderID).Msg("load order for notification")
		return
	}

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", order.UserID).Msg("load user for notification")
		return
	}

	s.dispatcher.Enqueue(ctx, template, user.Email, map[string]interface{}{
		"order_id": order.ID,
		"total":    order.TotalAmount.StringFixed(2),
		"status":   string(order.Status),
	})
}

func (s *paymentServiceImpl) HistoryByUser(ctx context.Context, userID uint) ([]*model.PaymentIntent, error) {
	return s.intentRepo.ListByUser(ctx, userID)
}
