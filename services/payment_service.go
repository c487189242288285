package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentNotification is the payment provider's callback. OrderID carries the
// order code the payment was opened for.
type PaymentNotification struct {
	OrderID           string               `json:"order_id" validate:"required,max=32"`
	TransactionID     string               `json:"transaction_id" validate:"required,max=255"`
	TransactionStatus models.PaymentStatus `json:"transaction_status" validate:"required,payment_status"`
	PaymentType       string               `json:"payment_type" validate:"omitempty,max=255"`
	StatusCode        string               `json:"status_code"`
	GrossAmount       string               `json:"gross_amount"`
	SignatureKey      string               `json:"signature_key"`
	Raw               []byte               `json:"-"`
}

// PaymentService records provider payment outcomes on orders.
type PaymentService struct {
	db *gorm.DB
	settings
}

func NewPaymentService(db *gorm.DB, opts ...Option) *PaymentService {
	return &PaymentService{db: db, settings: newSettings(opts)}
}

// SignNotification computes the signature the provider sends with a
// notification.
func SignNotification(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func (s *PaymentService) verify(n PaymentNotification) bool {
	if s.paymentKey == "" {
		return true
	}
	expected := SignNotification(n.OrderID, n.StatusCode, n.GrossAmount, s.paymentKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// ApplyPaymentNotification stores the provider status on the order and moves
// an order waiting for payment into the queue or to payment_failed.
func (s *PaymentService) ApplyPaymentNotification(ctx context.Context, n PaymentNotification) (*models.Order, error) {
	if err := validateStruct(&n); err != nil {
		return nil, err
	}
	if !s.verify(n) {
		utils.Info(logrus.Fields{"order_code": n.OrderID}).Warn("Payment notification signature mismatch")
		return nil, ErrInvalidSignature
	}

	var id uint
	var from, to models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ref models.Order
		if err := tx.Select("id").Where("order_code = ?", n.OrderID).First(&ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to find order %s: %w", n.OrderID, err)
		}

		order, err := lockOrder(tx, ref.ID)
		if err != nil {
			return err
		}

		var taken int64
		if err := tx.Model(&models.Order{}).
			Where("transaction_id = ? AND id <> ?", n.TransactionID, order.ID).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check transaction id: %w", err)
		}
		if taken > 0 {
			return ErrDuplicateTransaction
		}

		from = order.Status
		to = StatusAfterPayment(order.Status, n.TransactionStatus)

		fields := map[string]interface{}{
			"payment_status": n.TransactionStatus,
			"transaction_id": n.TransactionID,
			"status":         to,
			"updated_at":     s.now(),
		}
		if n.PaymentType != "" {
			fields["payment_method"] = n.PaymentType
		}
		if len(n.Raw) > 0 {
			fields["payment_payload"] = datatypes.JSON(n.Raw)
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(fields).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateTransaction
			}
			return fmt.Errorf("failed to record payment for order %s: %w", n.OrderID, err)
		}
		id = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("id = ?", id))
	if err != nil {
		return nil, err
	}

	utils.Info(logrus.Fields{
		"order_code":     order.OrderCode,
		"transaction_id": n.TransactionID,
		"payment_status": n.TransactionStatus,
		"old_status":     from,
		"new_status":     to,
	}).Info("Payment notification applied")

	s.publish(EventOrderUpdated, order)
	return order, nil
}

// ExpireStalePayments marks orders that have waited for payment longer than
// ttl as expired. It returns the number of orders moved to payment_failed.
func (s *PaymentService) ExpireStalePayments(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)

	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderStatusWaitingPayment, cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to find stale payments: %w", err)
	}

	expired := 0
	for _, id := range ids {
		var order *models.Order
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			locked, err := lockOrder(tx, id)
			if err != nil {
				return err
			}
			next := StatusAfterPayment(locked.Status, models.PaymentStatusExpire)
			if next == locked.Status {
				return nil
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusExpire,
				"status":         next,
				"updated_at":     s.now(),
			}).Error; err != nil {
				return err
			}
			order = locked
			return nil
		})
		if err != nil {
			utils.Error(logrus.Fields{"order_id": id, "error": err}).Error("Failed to expire payment")
			continue
		}
		if order == nil {
			continue
		}

		expired++
		utils.Info(logrus.Fields{"order_code": order.OrderCode}).Info("Payment expired")
		if full, err := s.getOrder(ctx, id); err == nil {
			s.publish(EventOrderUpdated, full)
		}
	}
	return expired, nil
}

func (s *PaymentService) getOrder(ctx context.Context, id uint) (*models.Order, error) {
	return findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("id = ?", id))
}
