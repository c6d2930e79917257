package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
)

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository creates the GORM-backed product repository.
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, ids []int64) ([]*product.Product, error) {
	var list []*product.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) List(ctx context.Context, f product.ListFilter) ([]*product.Product, error) {
	query := r.db.WithContext(ctx).Model(&product.Product{}).Preload("Category")
	if f.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.CategoryID > 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Limit > 0 {
		query = query.Offset((f.Page - 1) * f.Limit).Limit(f.Limit)
	}
	var list []*product.Product
	if err := query.Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) ListBelowStock(ctx context.Context, threshold int64) ([]*product.Product, error) {
	var list []*product.Product
	if err := r.db.WithContext(ctx).
		Where("stock_quantity < ?", threshold).
		Preload("Category").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *productRepo) Create(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *product.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetStock(ctx context.Context, id int64, qty int64) (*product.Product, error) {
	var p product.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		return tx.Model(&p).UpdateColumn("stock_quantity", qty).Error
	})
	if err != nil {
		return nil, err
	}
	p.StockQuantity = qty
	return &p, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id int64, delta int64) (*product.Product, error) {
	if delta == 0 {
		return r.GetByID(ctx, id)
	}
	// guard: the condition re-checks the quantity at write time, so a
	// negative delta can never push the stock below zero
	floor := int64(0)
	if delta < 0 {
		floor = -delta
	}
	res := r.db.WithContext(ctx).Model(&product.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, floor).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// either the product is missing or the guard rejected the delta
		var p product.Product
		if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
			return nil, err
		}
		return nil, product.ErrInsufficientStock
	}
	return r.GetByID(ctx, id)
}
