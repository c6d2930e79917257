package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/config"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/category"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
	"github.com/piyusu/E-commerse-inventry/internal/infra/mq"
)

// ProductService covers catalog reads, product CRUD and stock updates.
type ProductService struct {
	repo         product.Repository
	categoryRepo category.Repository
	alerts       *mq.StockAlertPublisher // nil disables alerting
	cfg          *config.CatalogConfig
	monitor      *Monitor
}

func NewProductService(repo product.Repository, categoryRepo category.Repository, alerts *mq.StockAlertPublisher, cfg *config.CatalogConfig) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		alerts:       alerts,
		cfg:          cfg,
		monitor:      GetMonitor(),
	}
}

// List applies the name/category filter with normalized pagination.
func (s *ProductService) List(ctx context.Context, f product.ListFilter) ([]*product.Product, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = s.cfg.DefaultPageSize
	}
	if f.Limit > s.cfg.MaxPageSize {
		f.Limit = s.cfg.MaxPageSize
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		s.monitor.RecordDBError()
		return nil, err
	}
	return list, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("product not found: %d", id)
		}
		s.monitor.RecordDBError()
		return nil, err
	}
	return p, nil
}

// Create validates the product and its optional category reference,
// then persists it. PricePaise is expected to already be converted
// from major units at the request boundary.
func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	if p.Name == "" || p.SKU == "" {
		return NewValidationError("name, sku, and price are required")
	}
	if p.PricePaise < 0 {
		return NewValidationError("invalid price")
	}
	if p.StockQuantity < 0 {
		return NewValidationError("stock cannot be negative")
	}
	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewConflictError("sku already exists: %s", p.SKU)
		}
		s.monitor.RecordDBError()
		return err
	}
	return nil
}

// Update persists an already-patched product, re-validating the price
// and category reference.
func (s *ProductService) Update(ctx context.Context, p *product.Product) error {
	if p.PricePaise < 0 {
		return NewValidationError("invalid price")
	}
	if err := s.checkCategory(ctx, p.CategoryID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return NewConflictError("sku already exists: %s", p.SKU)
		}
		s.monitor.RecordDBError()
		return err
	}
	return nil
}

// LowStock lists products below the configured threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]*product.Product, error) {
	list, err := s.repo.ListBelowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		s.monitor.RecordDBError()
		return nil, err
	}
	return list, nil
}

// StockUpdateRequest selects exactly one of the two update modes.
type StockUpdateRequest struct {
	Set        *int64 `json:"set"`
	Adjustment *int64 `json:"adjustment"`
}

// UpdateStock applies an absolute set or a guarded relative adjustment.
func (s *ProductService) UpdateStock(ctx context.Context, id int64, req StockUpdateRequest) (*product.Product, error) {
	var (
		p   *product.Product
		err error
	)
	switch {
	case req.Set != nil && req.Adjustment != nil:
		return nil, NewValidationError("set and adjustment are mutually exclusive")
	case req.Set != nil:
		if *req.Set < 0 {
			return nil, NewValidationError("stock cannot be negative")
		}
		p, err = s.repo.SetStock(ctx, id, *req.Set)
	case req.Adjustment != nil:
		p, err = s.repo.AdjustStock(ctx, id, *req.Adjustment)
	default:
		return nil, NewValidationError("set or adjustment required")
	}

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, NewNotFoundError("product not found: %d", id)
		case errors.Is(err, product.ErrInsufficientStock):
			s.monitor.RecordStockConflict()
			return nil, NewConflictError("adjustment would lead to negative stock")
		}
		s.monitor.RecordDBError()
		return nil, err
	}

	s.maybeAlertLowStock(ctx, p)
	return p, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("invalid category: %d", *id)
		}
		s.monitor.RecordDBError()
		return err
	}
	return nil
}

// maybeAlertLowStock publishes a best-effort alert when the quantity
// sits below the threshold. Alert failures never fail the request.
func (s *ProductService) maybeAlertLowStock(ctx context.Context, p *product.Product) {
	if s.alerts == nil || p.StockQuantity >= s.cfg.LowStockThreshold {
		return
	}
	err := s.alerts.Publish(ctx, mq.StockAlert{
		ProductID:     p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		StockQuantity: p.StockQuantity,
		Threshold:     s.cfg.LowStockThreshold,
	})
	if err != nil {
		s.monitor.RecordMQError()
		zap.L().Warn("low-stock alert publish failed",
			zap.Int64("product_id", p.ID),
			zap.Error(err))
	}
}
