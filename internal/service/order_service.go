package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/order"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
)

// OrderService runs the order workflow: creation with stock deduction,
// status transitions with compensating restock, and queries.
type OrderService struct {
	db        *gorm.DB
	orderRepo order.Repository
	monitor   *Monitor
}

func NewOrderService(db *gorm.DB, orderRepo order.Repository) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		monitor:   GetMonitor(),
	}
}

// LineRequest is one (product, quantity) pair from the client cart.
type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Place validates the cart, snapshots unit prices, persists the order
// as pending and decrements stock — all inside one transaction. On any
// failure nothing is written.
func (s *OrderService) Place(ctx context.Context, username string, items []LineRequest) (*order.Order, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(items) == 0 {
		s.monitor.RecordOrderRejected()
		return nil, NewValidationError("username and items are required")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			s.monitor.RecordOrderRejected()
			return nil, NewValidationError("invalid quantity for product %d", it.ProductID)
		}
	}

	var placed *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) resolve the whole cart in one read
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		var products []*product.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		byID := make(map[int64]*product.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// 2) validate lines, snapshot prices, accumulate the total
		var total int64
		lines := make([]order.Line, 0, len(items))
		for _, it := range items {
			p, ok := byID[it.ProductID]
			if !ok {
				return NewNotFoundError("product not found: %d", it.ProductID)
			}
			if p.StockQuantity < it.Quantity {
				return NewConflictError("insufficient stock for %s, available: %d", p.Name, p.StockQuantity)
			}
			total += p.PricePaise * it.Quantity
			lines = append(lines, order.Line{
				ProductID:        p.ID,
				Quantity:         it.Quantity,
				PriceAtTimePaise: p.PricePaise,
			})
		}

		// 3) persist the pending order with its lines
		o := &order.Order{
			Ref:        newOrderRef(),
			Username:   username,
			Lines:      lines,
			TotalPaise: total,
			Status:     order.StatusPending,
		}
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// 4) guarded decrement: the condition re-checks stock at write
		// time, so two carts racing over the same product cannot both win
		for _, ln := range o.Lines {
			res := tx.Model(&product.Product{}).
				Where("id = ? AND stock_quantity >= ?", ln.ProductID, ln.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", ln.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				p := byID[ln.ProductID]
				return NewConflictError("insufficient stock for %s, available: %d", p.Name, p.StockQuantity)
			}
		}

		placed = o
		return nil
	})
	if err != nil {
		s.recordPlaceFailure(err)
		return nil, err
	}
	s.monitor.RecordOrderPlaced()
	return placed, nil
}

// UpdateStatus transitions an order. Cancelling a pending order
// restores every line's quantity; a same-status write is a no-op;
// fulfilled and cancelled are terminal.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, target order.Status) (*order.Order, error) {
	if _, err := order.ParseStatus(string(target)); err != nil {
		return nil, NewValidationError("invalid order status")
	}

	var updated *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o order.Order
		if err := tx.Preload("Lines").First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("order not found: %d", id)
			}
			return fmt.Errorf("load order: %w", err)
		}

		if o.Status == target {
			updated = &o
			return nil
		}
		if o.Status != order.StatusPending {
			return NewValidationError("cannot change a %s order to %s", o.Status, target)
		}

		updates := map[string]interface{}{"status": target}
		if target == order.StatusCancelled {
			// compensate the deduction from order creation
			for _, ln := range o.Lines {
				if err := tx.Model(&product.Product{}).
					Where("id = ?", ln.ProductID).
					UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", ln.Quantity)).Error; err != nil {
					return fmt.Errorf("restore stock: %w", err)
				}
			}
		}
		if target == order.StatusFulfilled {
			now := time.Now()
			o.FulfilledAt = &now
			updates["fulfilled_at"] = &now
		}

		if err := tx.Model(&order.Order{}).Where("id = ?", o.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		o.Status = target
		updated = &o
		return nil
	})
	if err != nil {
		if isInfrastructure(err) {
			s.monitor.RecordDBError()
		}
		return nil, err
	}

	switch target {
	case order.StatusFulfilled:
		s.monitor.RecordOrderFulfilled()
	case order.StatusCancelled:
		s.monitor.RecordOrderCancelled()
	}
	return updated, nil
}

// Fulfill is the convenience pending-only transition: unlike
// UpdateStatus it rejects an already-fulfilled order outright.
func (s *OrderService) Fulfill(ctx context.Context, id int64) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order not found: %d", id)
		}
		s.monitor.RecordDBError()
		return nil, err
	}
	if o.Status != order.StatusPending {
		return nil, NewValidationError("only pending orders can be fulfilled")
	}
	return s.UpdateStatus(ctx, id, order.StatusFulfilled)
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("order not found: %d", id)
		}
		s.monitor.RecordDBError()
		return nil, err
	}
	return o, nil
}

func (s *OrderService) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	list, err := s.orderRepo.ListRecent(ctx, limit)
	if err != nil {
		s.monitor.RecordDBError()
		return nil, err
	}
	return list, nil
}

func (s *OrderService) ListByUser(ctx context.Context, username string) ([]*order.Order, error) {
	list, err := s.orderRepo.ListByUser(ctx, username)
	if err != nil {
		s.monitor.RecordDBError()
		return nil, err
	}
	return list, nil
}

func (s *OrderService) recordPlaceFailure(err error) {
	var cf *ConflictError
	if errors.As(err, &cf) {
		s.monitor.RecordStockConflict()
		return
	}
	if isInfrastructure(err) {
		s.monitor.RecordDBError()
		return
	}
	s.monitor.RecordOrderRejected()
}

func isInfrastructure(err error) bool {
	var ve *ValidationError
	var nf *NotFoundError
	var cf *ConflictError
	return !errors.As(err, &ve) && !errors.As(err, &nf) && !errors.As(err, &cf)
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
