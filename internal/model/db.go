package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time
}

type Movie struct {
	ID           uint            `gorm:"primaryKey"`
	UUID         uuid.UUID       `gorm:"uniqueIndex;not null"`
	Title        string          `gorm:"size:255;not null;uniqueIndex:idx_movies_title_year"`
	Year         int             `gorm:"not null;uniqueIndex:idx_movies_title_year"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Availability int32           `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Cart struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"uniqueIndex;not null"`
	Items  []CartItem
}

type CartItem struct {
	ID       uint  `gorm:"primaryKey"`
	CartID   uint  `gorm:"not null;uniqueIndex:idx_cart_items_cart_movie"`
	MovieID  uint  `gorm:"not null;uniqueIndex:idx_cart_items_cart_movie"`
	Quantity int32 `gorm:"not null"`
	AddedAt  time.Time
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderFailed    OrderStatus = "failed"
	OrderCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderPaid || s == OrderFailed || s == OrderCancelled
}

type Order struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Status      OrderStatus     `gorm:"size:16;index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null"`
	MovieID  uint  `gorm:"index;not null"`
	Quantity int32 `gorm:"not null"`
	// price snapshot taken at checkout, independent of later catalog edits
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time
}

type IntentStatus string

const (
	IntentCreated   IntentStatus = "created"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

type PaymentIntent struct {
	IntentID    string          `gorm:"primaryKey;size:64;not null"` // gateway reference
	OrderID     uint            `gorm:"index;not null"`
	Status      IntentStatus    `gorm:"size:16;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ApprovalURL string          `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
