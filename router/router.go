package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ordermenu/controllers"
	"github.com/yeremiapane/ordermenu/kds"
	"github.com/yeremiapane/ordermenu/middlewares"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
	"gorm.io/gorm"
)

const loginRatePerMinute = 10

// Options carries everything the HTTP layer is wired from.
type Options struct {
	DB       *gorm.DB
	Orders   *services.OrderService
	Kitchen  *services.KitchenService
	Payments *services.PaymentService
	Hub      *kds.Hub
	Tokens   *utils.TokenManager

	Receipt  services.ReceiptHeader
	Location *time.Location

	KitchenRatePerMinute     int
	OrderStatusRatePerMinute int
	CORSAllowedOrigin        string
	Production               bool
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders(opts.Production))
	r.Use(middlewares.CORSMiddlewares(opts.CORSAllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(opts.DB, opts.Tokens)
	menuCtrl := controllers.NewMenuController(opts.Orders)
	orderCtrl := controllers.NewOrderController(opts.Orders)
	adminCtrl := controllers.NewAdminController(opts.Orders)
	kitchenCtrl := controllers.NewKitchenController(opts.Kitchen)
	paymentCtrl := controllers.NewPaymentController(opts.Payments)
	receiptCtrl := controllers.NewReceiptController(opts.Orders, opts.Receipt, opts.Location)
	kdsCtrl := controllers.NewKDSController(opts.Hub, opts.CORSAllowedOrigin)

	kitchenLimiter := middlewares.NewRateLimiter(opts.KitchenRatePerMinute)
	statusLimiter := middlewares.NewRateLimiter(opts.OrderStatusRatePerMinute)
	loginLimiter := middlewares.NewRateLimiter(loginRatePerMinute)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/login", loginLimiter.RateLimit(), userCtrl.Login)

	r.GET("/categories", menuCtrl.ListCategories)
	r.GET("/products", menuCtrl.ListProducts)

	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders/:code", orderCtrl.GetOrderByCode)
	r.GET("/api/orders/:code/status", statusLimiter.RateLimit(), orderCtrl.GetOrderStatus)

	r.POST("/payments/notification", paymentCtrl.Notification)

	r.GET("/kds/ws", middlewares.WebSocketAuthMiddleware(opts.Tokens), kdsCtrl.Connect)

	// ----------------------------------------------------------------
	//                      KITCHEN
	// ----------------------------------------------------------------
	kitchen := r.Group("/api/kitchen")
	kitchen.Use(
		middlewares.AuthMiddleware(opts.Tokens),
		middlewares.RequireRoles(models.RoleChef, models.RoleAdmin, models.RoleOwner),
	)
	{
		kitchen.GET("/orders", kitchenLimiter.RateLimit(), kitchenCtrl.Board)
		kitchen.PATCH("/order-items/:id/toggle-done", kitchenCtrl.ToggleItemDone)
		kitchen.PATCH("/orders/:id/status", kitchenCtrl.SetOrderStatus)
	}

	// ----------------------------------------------------------------
	//                      ADMIN / CASHIER
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(opts.Tokens))

	admin.GET("/profile", userCtrl.GetProfile)

	staff := admin.Group("")
	staff.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleOwner, models.RoleCashier))
	{
		staff.GET("/orders", adminCtrl.ListOrders)
		staff.GET("/orders/:id", adminCtrl.GetOrder)
		staff.PUT("/orders/:id", adminCtrl.UpdateOrder)
		staff.DELETE("/orders/:id", adminCtrl.DeleteOrder)
		staff.GET("/orders/:id/receipt", middlewares.ReceiptLoggerMiddleware(), receiptCtrl.GenerateReceipt)
	}

	owners := admin.Group("/users")
	owners.Use(middlewares.RequireRoles(models.RoleAdmin, models.RoleOwner))
	{
		owners.GET("", userCtrl.GetAllUsers)
		owners.POST("", userCtrl.Register)
	}

	return r
}
