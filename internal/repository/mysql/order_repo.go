package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository creates the GORM-backed order repository.
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, username string) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("username = ?", username).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
