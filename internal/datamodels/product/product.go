package product

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/category"
)

// ErrInsufficientStock is returned by guarded stock updates that would
// drive the quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Product is a sellable catalog item. Prices are stored in paise; the
// major-unit rendering only exists at the read boundary.
type Product struct {
	ID            int64              `gorm:"primaryKey" json:"id"`
	Name          string             `gorm:"size:128;not null" json:"name"`
	SKU           string             `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	PricePaise    int64              `gorm:"not null" json:"price_paise"`
	StockQuantity int64              `gorm:"not null;default:0" json:"stock_quantity"`
	CategoryID    *int64             `gorm:"index" json:"category_id,omitempty"`
	Category      *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// DisplayPrice renders PricePaise in major units ("99.90").
func (p *Product) DisplayPrice() string {
	return decimal.NewFromInt(p.PricePaise).Div(decimal.NewFromInt(100)).StringFixed(2)
}

// ListFilter narrows and pages List results. Name matches as a
// case-insensitive substring, CategoryID matches exactly when > 0.
// Page and Limit are expected to be normalized by the caller.
type ListFilter struct {
	Name       string
	CategoryID int64
	Page       int
	Limit      int
}

// Repository is the product storage interface.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*Product, error)
	List(ctx context.Context, f ListFilter) ([]*Product, error)
	ListBelowStock(ctx context.Context, threshold int64) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	// SetStock writes an absolute quantity, which must be >= 0.
	SetStock(ctx context.Context, id int64, qty int64) (*Product, error)
	// AdjustStock applies a signed delta through a conditional update
	// and fails with ErrInsufficientStock instead of going negative.
	AdjustStock(ctx context.Context, id int64, delta int64) (*Product, error)
}
