package mysql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/config"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/category"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/order"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
)

// Open connects to MySQL and migrates the schema. The handle is owned
// by the caller; there is no package-level singleton.
func Open(cfg *config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all storefront entities.
// Exported so tests can reuse it against their own database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&category.Category{},
		&product.Product{},
		&order.Order{},
		&order.Line{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
