package server

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
	"github.com/piyusu/E-commerse-inventry/internal/service"
)

// productRequest is the create/update payload. Pointer fields make the
// permitted-field set explicit: on partial update only the present
// fields are applied, on create the required ones must be present.
// Price arrives in major units and is converted to paise here, at the
// write boundary.
type productRequest struct {
	Name          *string  `json:"name"`
	SKU           *string  `json:"sku"`
	Price         *float64 `json:"price"`
	StockQuantity *int64   `json:"stock_quantity"`
	CategoryID    *int64   `json:"category"`
}

func (r *productRequest) applyTo(p *product.Product, partial bool) error {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	} else if !partial {
		return service.NewValidationError("name, sku, and price are required")
	}

	if r.SKU != nil {
		p.SKU = strings.TrimSpace(*r.SKU)
	} else if !partial {
		return service.NewValidationError("name, sku, and price are required")
	}

	if r.Price != nil {
		paise := decimal.NewFromFloat(*r.Price).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		if paise.IsNegative() {
			return service.NewValidationError("invalid price")
		}
		p.PricePaise = paise.IntPart()
	} else if !partial {
		return service.NewValidationError("name, sku, and price are required")
	}

	if r.StockQuantity != nil {
		if *r.StockQuantity < 0 {
			return service.NewValidationError("stock cannot be negative")
		}
		p.StockQuantity = *r.StockQuantity
	}

	if r.CategoryID != nil {
		p.CategoryID = r.CategoryID
	}

	return nil
}

// productView adds the derived display price to a product response.
// The conversion never feeds back into stored values.
type productView struct {
	*product.Product
	PriceINR string `json:"price_inr"`
}

func newProductView(p *product.Product) productView {
	return productView{Product: p, PriceINR: p.DisplayPrice()}
}

func newProductViews(list []*product.Product) []productView {
	out := make([]productView, 0, len(list))
	for _, p := range list {
		out = append(out, newProductView(p))
	}
	return out
}
