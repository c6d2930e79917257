package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/piyusu/E-commerse-inventry/internal/config"
	"github.com/piyusu/E-commerse-inventry/internal/datamodels/product"
	"github.com/piyusu/E-commerse-inventry/internal/repository/mysql"
)

// openTestDB builds an isolated in-memory database. A single connection
// keeps the database alive for the whole test and serializes concurrent
// transactions the way a real server connection pool would.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db))
	return db
}

func testCatalogConfig() *config.CatalogConfig {
	cfg := config.DefaultConfig()
	return &cfg.Catalog
}

func seedProduct(t *testing.T, db *gorm.DB, name, sku string, paise, stock int64) *product.Product {
	t.Helper()
	p := &product.Product{
		Name:          name,
		SKU:           sku,
		PricePaise:    paise,
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func fetchStock(t *testing.T, db *gorm.DB, id int64) int64 {
	t.Helper()
	var p product.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.StockQuantity
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table("orders").Count(&n).Error)
	return n
}
