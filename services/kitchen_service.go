package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
	"gorm.io/gorm"
)

// KitchenService drives orders through the kitchen once they are queued.
type KitchenService struct {
	db *gorm.DB
	settings
}

func NewKitchenService(db *gorm.DB, opts ...Option) *KitchenService {
	return &KitchenService{db: db, settings: newSettings(opts)}
}

// ToggleItemDone flips an item's done flag and moves the order between
// in_progress and ready_to_serve when the flip changes whether all items
// are done.
func (s *KitchenService) ToggleItemDone(ctx context.Context, itemID uint) (*models.Order, error) {
	var orderID uint
	var from, to models.OrderStatus
	var done bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ref models.OrderItem
		if err := tx.Select("id", "order_id").First(&ref, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderItemNotFound
			}
			return fmt.Errorf("failed to find order item %d: %w", itemID, err)
		}

		order, err := lockOrder(tx, ref.OrderID)
		if err != nil {
			return err
		}
		if !IsKitchenFlow(order.Status) {
			return ErrNotInKitchenFlow
		}

		item, ok := order.Item(itemID)
		if !ok {
			return ErrOrderItemNotFound
		}
		item.IsDone = !item.IsDone

		now := s.now()
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{"is_done": item.IsDone, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("failed to update order item %d: %w", item.ID, err)
		}

		from = order.Status
		to = StatusAfterItemToggle(order.Status, order.AllItemsDone())
		if to != from {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Updates(map[string]interface{}{"status": to, "updated_at": now}).Error; err != nil {
				return fmt.Errorf("failed to update order %d status: %w", order.ID, err)
			}
		}

		orderID, done = order.ID, item.IsDone
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("id = ?", orderID))
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"order_code": order.OrderCode, "item_id": itemID, "is_done": done}
	if from != to {
		fields["old_status"], fields["new_status"] = from, to
	}
	utils.Info(fields).Info("Order item toggled")

	s.publish(EventOrderUpdated, order)
	return order, nil
}

// SetOrderStatus applies a kitchen transition. Moving to ready_to_serve
// requires every item to be done.
func (s *KitchenService) SetOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, newValidationError("status", "must be a valid order status")
	}

	var from models.OrderStatus
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !CanKitchenTransition(order.Status, status) {
			return fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidTransition, order.Status, status)
		}
		if status == models.OrderStatusReadyToServe && !order.AllItemsDone() {
			return ErrItemsNotDone
		}

		from = order.Status
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"status": status, "updated_at": s.now()}).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("id = ?", orderID))
	if err != nil {
		return nil, err
	}

	utils.Info(logrus.Fields{
		"order_code": order.OrderCode,
		"old_status": from,
		"new_status": status,
	}).Info("Order status changed by kitchen")

	s.publish(EventOrderUpdated, order)
	return order, nil
}

// BoardOrder is an order card on the kitchen display.
type BoardOrder struct {
	models.Order
	TimeSinceCreation string `json:"time_since_creation"`
	HumanCreatedAt    string `json:"human_created_at"`
}

type Board struct {
	InQueue      []BoardOrder `json:"in_queue"`
	InProgress   []BoardOrder `json:"in_progress"`
	ReadyToServe []BoardOrder `json:"ready_to_serve"`
}

// Board groups active orders by status. in_progress shows newest first,
// the other two columns oldest first.
func (s *KitchenService) Board(ctx context.Context) (*Board, error) {
	var orders []models.Order
	if err := withOrderDetails(s.db.WithContext(ctx)).
		Where("status IN ?", KitchenFlowStatuses()).
		Order("created_at asc").Order("id asc").
		Find(&orders).Error; err != nil {
		utils.Error(logrus.Fields{"error": err}).Error("Failed to load kitchen board")
		return nil, fmt.Errorf("failed to load kitchen board: %w", err)
	}

	now := s.now()
	board := &Board{
		InQueue:      []BoardOrder{},
		InProgress:   []BoardOrder{},
		ReadyToServe: []BoardOrder{},
	}

	for _, o := range orders {
		card := BoardOrder{
			Order:             o,
			TimeSinceCreation: humanize.RelTime(o.CreatedAt, now, "ago", "from now"),
			HumanCreatedAt:    o.CreatedAt.In(s.location).Format("15:04"),
		}
		switch o.Status {
		case models.OrderStatusInQueue:
			board.InQueue = append(board.InQueue, card)
		case models.OrderStatusInProgress:
			board.InProgress = append(board.InProgress, card)
		case models.OrderStatusReadyToServe:
			board.ReadyToServe = append(board.ReadyToServe, card)
		}
	}

	sort.SliceStable(board.InProgress, func(i, j int) bool {
		return board.InProgress[i].CreatedAt.After(board.InProgress[j].CreatedAt)
	})

	return board, nil
}
