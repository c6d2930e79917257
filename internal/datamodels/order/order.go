package order

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps a request string onto a known status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusFulfilled:
		return StatusFulfilled, nil
	case StatusCancelled:
		return StatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Line is one cart entry captured into an order. PriceAtTimePaise is
// the unit price snapshot taken at creation; later product price
// changes never touch it.
type Line struct {
	ID               int64 `gorm:"primaryKey" json:"id"`
	OrderID          int64 `gorm:"index;not null" json:"order_id"`
	ProductID        int64 `gorm:"index;not null" json:"product_id"`
	Quantity         int64 `gorm:"not null" json:"quantity"`
	PriceAtTimePaise int64 `gorm:"not null" json:"price_at_time_paise"`
}

// Order owns its lines outright, they have no lifecycle of their own.
type Order struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Ref         string     `gorm:"size:64;uniqueIndex;not null" json:"ref"`
	Username    string     `gorm:"size:128;index;not null" json:"username"`
	Lines       []Line     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPaise  int64      `gorm:"not null" json:"total_paise"`
	Status      Status     `gorm:"type:varchar(16);index;not null;default:'pending'" json:"status"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository is the order storage interface. Creation and status
// transitions run through the order service transaction, not here.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	ListByUser(ctx context.Context, username string) ([]*Order, error)
}
