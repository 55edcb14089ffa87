package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	TemplateOrderConfirmation = "order_confirmation"
	TemplatePaymentFailed     = "payment_failed"
	TemplateAccountWelcome    = "account_welcome"
)

// Job is the payload the external email worker pops off the queue.
type Job struct {
	Template  string                 `json:"template"`
	Recipient string                 `json:"recipient"`
	Context   map[string]interface{} `json:"context"`
	CreatedAt time.Time              `json:"created_at"`
}

type Queue interface {
	Push(ctx context.Context, payload []byte) error
}

type redisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) Queue {
	return &redisQueue{rdb: rdb, key: key}
}

func (q *redisQueue) Push(ctx context.Context, payload []byte) error {
	return q.rdb.LPush(ctx, q.key, payload).Err()
}

// Dispatcher enqueues email jobs fire-and-forget. Delivery, retries and
// ordering belong to the worker consuming the queue; a failed enqueue is
// logged and swallowed so order processing never depends on it.
type Dispatcher struct {
	queue  Queue
	logger zerolog.Logger
}

func NewDispatcher(queue Queue, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		queue:  queue,
		logger: logger,
	}
}

func (d *Dispatcher) Enqueue(ctx context.Context, template, recipient string, jobContext map[string]interface{}) {
	job := Job{
		Template:  template,
		Recipient: recipient,
		Context:   jobContext,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		d.logger.Error().Err(err).Str("template", template).Msg("marshal notification job")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.queue.Push(ctx, payload); err != nil {
		d.logger.Error().Err(err).
			Str("template", template).
			Str("recipient", recipient).
			Msg("enqueue notification job")
		return
	}

	d.logger.Debug().
		Str("template", template).
		Str("recipient", recipient).
		Msg("notification job enqueued")
}
