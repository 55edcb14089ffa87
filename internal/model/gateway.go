package model

// Wire types for the payment gateway's webhook callbacks.

const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

type GatewayResource struct {
	IntentID string `json:"intent_id"`
	Status   string `json:"status"`
}

type GatewayWebhookEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	CreateTime string          `json:"create_time"`
	Resource   GatewayResource `json:"resource"`
}
