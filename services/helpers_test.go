package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/database"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a file backed sqlite database. Immediate transactions
// make concurrent writers queue on the busy timeout instead of failing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLoggerWithLevel("error")

	dsn := filepath.Join(t.TempDir(), "ordermenu.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingNotifier) Publish(event string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fixture struct {
	db       *gorm.DB
	now      time.Time
	notifier *recordingNotifier
	orders   *OrderService
	kitchen  *KitchenService
	payments *PaymentService
	category models.Category
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		db:       setupTestDB(t),
		now:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		notifier: &recordingNotifier{},
	}

	opts = append([]Option{
		WithClock(func() time.Time { return f.now }),
		WithNotifier(f.notifier),
		WithLocation(time.UTC),
	}, opts...)

	f.orders = NewOrderService(f.db, NewCatalogRepository(), opts...)
	f.kitchen = NewKitchenService(f.db, opts...)
	f.payments = NewPaymentService(f.db, opts...)

	f.category = models.Category{Name: "Food"}
	require.NoError(t, f.db.Create(&f.category).Error)
	return f
}

func (f *fixture) product(t *testing.T, name string, price int64, stock *int) models.Product {
	t.Helper()
	p := models.Product{
		CategoryID:     f.category.ID,
		Name:           name,
		Price:          price,
		Stock:          stock,
		IsStockManaged: stock != nil,
		IsActive:       true,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, id).Error)
	return p.AvailableStock()
}

func (f *fixture) setStatus(t *testing.T, orderID uint, status models.OrderStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error)
}

func (f *fixture) createOrder(t *testing.T, items ...CreateOrderItemInput) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), cart(items...))
	require.NoError(t, err)
	return order
}

func cart(items ...CreateOrderItemInput) CreateOrderInput {
	table := "A1"
	return CreateOrderInput{
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		CustomerPhone: "0812-3456-7890",
		OrderType:     models.OrderTypeDineIn,
		TableNumber:   &table,
		Items:         items,
	}
}

func line(productID uint, qty int) CreateOrderItemInput {
	return CreateOrderItemInput{ProductID: productID, Quantity: qty}
}

func intPtr(v int) *int { return &v }
