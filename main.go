package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/config"
	"github.com/yeremiapane/ordermenu/database"
	"github.com/yeremiapane/ordermenu/kds"
	"github.com/yeremiapane/ordermenu/router"
	"github.com/yeremiapane/ordermenu/services"
	"github.com/yeremiapane/ordermenu/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLoggerWithLevel(cfg.LogLevel)

	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.AdminEmail != "" {
		if _, err := database.SeedAdmin(db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed admin: %v", err)
		}
	}

	hub := kds.NewHub()
	opts := []services.Option{
		services.WithNotifier(hub),
		services.WithLocation(cfg.Location),
		services.WithPaymentServerKey(cfg.PaymentServerKey),
	}
	if cfg.PaymentServerKey == "" {
		utils.Info(logrus.Fields{}).Warn("PAYMENT_SERVER_KEY is empty, payment notifications are not verified")
	}

	orders := services.NewOrderService(db, services.NewCatalogRepository(), opts...)
	kitchen := services.NewKitchenService(db, opts...)
	payments := services.NewPaymentService(db, opts...)

	if cfg.PaymentExpiry > 0 {
		monitor := services.NewPaymentMonitor(payments, time.Minute, cfg.PaymentExpiry)
		monitor.Start()
		defer monitor.Stop()
	}

	r := router.SetupRouter(router.Options{
		DB:       db,
		Orders:   orders,
		Kitchen:  kitchen,
		Payments: payments,
		Hub:      hub,
		Tokens:   utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
		Receipt: services.ReceiptHeader{
			Name:    cfg.RestaurantName,
			Address: cfg.RestaurantAddress,
			Phone:   cfg.RestaurantPhone,
		},
		Location:                 cfg.Location,
		KitchenRatePerMinute:     cfg.KitchenRatePerMinute,
		OrderStatusRatePerMinute: cfg.OrderStatusRatePerMinute,
		CORSAllowedOrigin:        cfg.CORSAllowedOrigin,
		Production:               cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.Info(logrus.Fields{"port": cfg.Port}).Info("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.Info(logrus.Fields{}).Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Graceful shutdown failed: %v", err)
	}
}
