package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(config.DatabaseConfig{
		Driver:          "sqlite",
		DBName:          filepath.Join(t.TempDir(), "signage.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"}, false)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	var products, customers, orders, history int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderStatusHistory{}).Count(&history).Error)

	assert.Equal(t, int64(8), products)
	assert.Equal(t, int64(5), customers)
	assert.Equal(t, int64(5), orders)
	assert.Equal(t, int64(3+2+1+4+1), history)

	var done models.Order
	require.NoError(t, db.Where("product_type = ?", "현수막").Take(&done).Error)
	assert.Equal(t, models.StatusDone, done.Status)
	assert.Equal(t, 4, done.Version)
}

func TestBackfillStatusHistory(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	customer := models.Customer{Name: "김철수", Phone: "010-1234-5678"}
	require.NoError(t, db.Create(&customer).Error)
	order := models.Order{CustomerID: customer.ID, ProductType: "LED 간판", Amount: 1000, Status: models.StatusDrafting}
	require.NoError(t, db.Create(&order).Error)

	n, err := BackfillStatusHistory(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var rows []models.OrderStatusHistory
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.StatusDrafting, rows[0].Status)
	require.NotNil(t, rows[0].Memo)
	assert.Equal(t, "초기 주문 등록", *rows[0].Memo)

	n, err = BackfillStatusHistory(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)
}
