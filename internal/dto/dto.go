package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AddCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type CartLine struct {
	MovieID   uint            `json:"movie_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartDetailResponse struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type OrderItemResponse struct {
	MovieID      uint            `json:"movie_id"`
	Quantity     int32           `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

type OrderResponse struct {
	OrderID     uint                `json:"order_id"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

type StartPaymentResponse struct {
	IntentID    string `json:"intent_id"`
	ApprovalURL string `json:"approval_url"`
}

type PaymentHistoryItem struct {
	IntentID  string          `json:"intent_id"`
	OrderID   uint            `json:"order_id"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
