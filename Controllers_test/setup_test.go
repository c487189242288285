package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ordermenu/database"
	"github.com/yeremiapane/ordermenu/kds"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/router"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testServerKey = "server-key-test"

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *utils.TokenManager
	now    time.Time
}

type appOption func(*router.Options)

func setupTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
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

	app := &testApp{
		db:     db,
		tokens: utils.NewTokenManager("test-secret", time.Hour),
		now:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	svcOpts := []services.Option{
		services.WithClock(func() time.Time { return app.now }),
		services.WithLocation(time.UTC),
		services.WithPaymentServerKey(testServerKey),
	}

	ro := router.Options{
		DB:                       db,
		Orders:                   services.NewOrderService(db, services.NewCatalogRepository(), svcOpts...),
		Kitchen:                  services.NewKitchenService(db, svcOpts...),
		Payments:                 services.NewPaymentService(db, svcOpts...),
		Hub:                      kds.NewHub(),
		Tokens:                   app.tokens,
		Receipt:                  services.ReceiptHeader{Name: "OrderMenu"},
		Location:                 time.UTC,
		KitchenRatePerMinute:     1000,
		OrderStatusRatePerMinute: 1000,
		CORSAllowedOrigin:        "*",
	}
	for _, opt := range opts {
		opt(&ro)
	}
	app.router = router.SetupRouter(ro)
	return app
}

func (a *testApp) seedUser(t *testing.T, email string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: string(role), Email: email, Password: string(hash), Role: role}
	require.NoError(t, a.db.Create(&user).Error)
	return user
}

func (a *testApp) tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	user := a.seedUser(t, string(role)+"@ordermenu.test", role)
	token, err := a.tokens.GenerateToken(user.ID, string(user.Role))
	require.NoError(t, err)
	return token
}

func (a *testApp) seedProduct(t *testing.T, name string, price int64, stock *int) models.Product {
	t.Helper()
	var category models.Category
	require.NoError(t, a.db.FirstOrCreate(&category, models.Category{Name: "Food"}).Error)

	p := models.Product{
		CategoryID:     category.ID,
		Name:           name,
		Price:          price,
		Stock:          stock,
		IsStockManaged: stock != nil,
		IsActive:       true,
	}
	require.NoError(t, a.db.Create(&p).Error)
	return p
}

func (a *testApp) setStatus(t *testing.T, orderID uint, status models.OrderStatus) {
	t.Helper()
	require.NoError(t, a.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error)
}

type apiResponse struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func cartPayload(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":  "Budi",
		"customer_email": "budi@example.com",
		"customer_phone": "081234567890",
		"order_type":     "dine_in",
		"table_number":   "A1",
		"items":          items,
	}
}

func item(productID uint, qty int) map[string]interface{} {
	return map[string]interface{}{"product_id": productID, "quantity": qty}
}

func (a *testApp) placeOrder(t *testing.T, items ...map[string]interface{}) models.Order {
	t.Helper()
	w := a.do(t, http.MethodPost, "/orders", "", cartPayload(items...))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Order models.Order `json:"order"`
	}
	decode(t, w, &data)
	return data.Order
}

func intPtr(v int) *int { return &v }
