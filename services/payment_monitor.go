package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/utils"
)

// PaymentMonitor periodically expires online orders whose payment never
// arrived.
type PaymentMonitor struct {
	payments *PaymentService
	interval time.Duration
	ttl      time.Duration

	stop chan struct{}
	once sync.Once
}

func NewPaymentMonitor(payments *PaymentService, interval, ttl time.Duration) *PaymentMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PaymentMonitor{
		payments: payments,
		interval: interval,
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
}

func (pm *PaymentMonitor) Start() {
	go func() {
		ticker := time.NewTicker(pm.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pm.check()
			case <-pm.stop:
				return
			}
		}
	}()
}

func (pm *PaymentMonitor) Stop() {
	pm.once.Do(func() { close(pm.stop) })
}

func (pm *PaymentMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), pm.interval)
	defer cancel()

	n, err := pm.payments.ExpireStalePayments(ctx, pm.ttl)
	if err != nil {
		utils.Error(logrus.Fields{"error": err}).Error("Payment expiry check failed")
		return
	}
	if n > 0 {
		utils.Info(logrus.Fields{"expired": n}).Info("Expired stale payments")
	}
}
