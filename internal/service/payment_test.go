package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"movieshop/internal/apperr"
	"movieshop/internal/client"
	"movieshop/internal/model"
	"movieshop/internal/notification"
	"movieshop/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSignature = "valid-signature"

type fakePaymentClient struct {
	createCalls int
}

func (f *fakePaymentClient) CreatePayment(ctx context.Context, orderRef string, amount decimal.Decimal) (*client.CreatePaymentResponse, error) {
	f.createCalls++
	return &client.CreatePaymentResponse{
		IntentID:    fmt.Sprintf("pi_%s_%d", orderRef, f.createCalls),
		ApprovalURL: "https://gateway.example/approve/" + orderRef,
	}, nil
}

func (f *fakePaymentClient) VerifyWebhookSignature(payload []byte, signature string) error {
	if signature != testSignature {
		return apperr.ErrPaymentVerification
	}
	return nil
}

type fakeQueue struct {
	jobs []notification.Job
}

func (q *fakeQueue) Push(ctx context.Context, payload []byte) error {
	var job notification.Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type paymentFixture struct {
	db         *gorm.DB
	gateway    *fakePaymentClient
	queue      *fakeQueue
	cartSvc    CartService
	orderSvc   OrderService
	paymentSvc PaymentService
	orderRepo  repository.OrderRepository
	intentRepo repository.PaymentIntentRepository
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	intentRepo := repository.NewPaymentIntentRepository(db)
	webhookRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	gateway := &fakePaymentClient{}
	queue := &fakeQueue{}
	dispatcher := notification.NewDispatcher(queue, zerolog.Nop())

	return &paymentFixture{
		db:       db,
		gateway:  gateway,
		queue:    queue,
		cartSvc:  NewCartService(db, cartRepo, movieRepo),
		orderSvc: NewOrderService(db, cartRepo, movieRepo, orderRepo),
		paymentSvc: NewPaymentService(
			db, gateway,
			orderRepo, intentRepo, webhookRepo, movieRepo, userRepo,
			dispatcher, zerolog.Nop(),
		),
		orderRepo:  orderRepo,
		intentRepo: intentRepo,
	}
}

// placeOrder seeds a user plus movie and walks cart → checkout.
func (f *paymentFixture) placeOrder(t *testing.T, qty int32, availability int32) (*model.User, *model.Order) {
	t.Helper()

	user := seedUser(t, f.db, fmt.Sprintf("user%d@example.com", qty))
	movie := seedMovie(t, f.db, fmt.Sprintf("Movie %d", availability), "10.00", availability)

	require.NoError(t, f.cartSvc.AddItem(context.Background(), user.ID, movie.ID, qty))
	order, err := f.orderSvc.Checkout(context.Background(), user.ID)
	require.NoError(t, err)

	return user, order
}

func webhookBody(t *testing.T, eventID, eventType, intentID string) []byte {
	t.Helper()

	body, err := json.Marshal(model.GatewayWebhookEvent{
		ID:        eventID,
		EventType: eventType,
		Resource:  model.GatewayResource{IntentID: intentID, Status: "done"},
	})
	require.NoError(t, err)

	return body
}

func signedHeaders() http.Header {
	h := http.Header{}
	h.Set("X-Gateway-Signature", testSignature)
	return h
}

func TestStartPaymentCreatesIntent(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 2, 5)

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.IntentID)
	assert.Contains(t, resp.ApprovalURL, "gateway.example")

	intent, err := f.intentRepo.FindByIntentID(context.Background(), resp.IntentID)
	require.NoError(t, err)
	assert.Equal(t, model.IntentCreated, intent.Status)
	assert.Equal(t, "20.00", intent.Amount.StringFixed(2))
}

func TestStartPaymentReusesOpenIntent(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	first, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	second, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	assert.Equal(t, first.IntentID, second.IntentID)
	assert.Equal(t, 1, f.gateway.createCalls)
}

func TestStartPaymentOnForeignOrder(t *testing.T) {
	f := newPaymentFixture(t)
	_, order := f.placeOrder(t, 1, 5)

	_, err := f.paymentSvc.Start(context.Background(), order.UserID+1, order.ID)
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
}

func TestStartPaymentOnTerminalOrder(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	require.NoError(t, f.db.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.OrderCancelled).Error)

	_, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	assert.ErrorIs(t, err, apperr.ErrOrderConflict)
}

func TestWebhookInvalidSignature(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	headers := http.Header{}
	headers.Set("X-Gateway-Signature", "forged")
	body := webhookBody(t, "evt_1", model.EventPaymentSucceeded, resp.IntentID)

	err = f.paymentSvc.HandleWebhook(context.Background(), headers, body)
	assert.ErrorIs(t, err, apperr.ErrPaymentVerification)

	// nothing changed, nothing enqueued
	got, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, got.Status)
	assert.Empty(t, f.queue.jobs)
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	body := webhookBody(t, "evt_1", model.EventPaymentSucceeded, resp.IntentID)
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), body))

	got, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, got.Status)

	intent, err := f.intentRepo.FindByIntentID(context.Background(), resp.IntentID)
	require.NoError(t, err)
	assert.Equal(t, model.IntentSucceeded, intent.Status)

	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, notification.TemplateOrderConfirmation, f.queue.jobs[0].Template)
	assert.Equal(t, user.Email, f.queue.jobs[0].Recipient)
}

func TestWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	body := webhookBody(t, "evt_1", model.EventPaymentSucceeded, resp.IntentID)
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), body))
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), body))

	got, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, got.Status)

	// exactly one transition, exactly one notification
	assert.Len(t, f.queue.jobs, 1)
}

func TestWebhookTerminalOrderStaysTerminal(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 1, 5)

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	paid := webhookBody(t, "evt_1", model.EventPaymentSucceeded, resp.IntentID)
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), paid))

	// a late contradictory event under a fresh event id must not re-open the order
	failed := webhookBody(t, "evt_2", model.EventPaymentFailed, resp.IntentID)
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), failed))

	got, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, got.Status)
	assert.Len(t, f.queue.jobs, 1)
}

func TestWebhookPaymentFailedReleasesInventory(t *testing.T) {
	f := newPaymentFixture(t)
	user, order := f.placeOrder(t, 2, 5)
	movieID := order.Items[0].MovieID
	require.Equal(t, int32(3), movieAvailability(t, f.db, movieID))

	resp, err := f.paymentSvc.Start(context.Background(), user.ID, order.ID)
	require.NoError(t, err)

	body := webhookBody(t, "evt_1", model.EventPaymentFailed, resp.IntentID)
	require.NoError(t, f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), body))

	got, err := f.orderRepo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderFailed, got.Status)

	// reserved copies go back on the shelf
	assert.Equal(t, int32(5), movieAvailability(t, f.db, movieID))

	require.Len(t, f.queue.jobs, 1)
	assert.Equal(t, notification.TemplatePaymentFailed, f.queue.jobs[0].Template)
}

func TestWebhookUnknownIntent(t *testing.T) {
	f := newPaymentFixture(t)

	body := webhookBody(t, "evt_1", model.EventPaymentSucceeded, "pi_missing")
	err := f.paymentSvc.HandleWebhook(context.Background(), signedHeaders(), body)
	assert.ErrorIs(t, err, apperr.ErrIntentNotFound)
}
