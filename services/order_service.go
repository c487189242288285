package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/models"
	"github.com/yeremiapane/ordermenu/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

type CreateOrderItemInput struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1,max=99"`
	Notes     *string `json:"notes" validate:"omitempty,max=500"`
}

// CreateOrderInput is the customer cart. Prices are never read from it.
type CreateOrderInput struct {
	CustomerName  string                 `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string                 `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone string                 `json:"customer_phone" validate:"required,max=20"`
	OrderType     models.OrderType       `json:"order_type" validate:"required,order_type"`
	TableNumber   *string                `json:"table_number" validate:"required_if=OrderType dine_in,omitempty,max=10"`
	Notes         *string                `json:"notes" validate:"omitempty,max=1000"`
	PaymentMethod string                 `json:"payment_method" validate:"omitempty,oneof=cash online"`
	Items         []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

func (in *CreateOrderInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = normalizeEmail(in.CustomerEmail)
	in.CustomerPhone = normalizePhone(in.CustomerPhone)
	in.TableNumber = trimOptional(in.TableNumber)
	in.Notes = trimOptional(in.Notes)
	for i := range in.Items {
		in.Items[i].Notes = trimOptional(in.Items[i].Notes)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = PaymentMethodCash
	}
}

type OrderService struct {
	db       *gorm.DB
	catalog  CatalogRepository
	sequence *SequenceGenerator
	settings
}

func NewOrderService(db *gorm.DB, catalog CatalogRepository, opts ...Option) *OrderService {
	s := newSettings(opts)
	return &OrderService{
		db:       db,
		catalog:  catalog,
		sequence: NewSequenceGenerator(s.location),
		settings: s,
	}
}

// CreateOrder validates the cart, prices it from the live catalog and stores
// the order, its items and the stock decrements in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	input.normalize()
	if err := validateStruct(&input); err != nil {
		return nil, err
	}
	if input.OrderType == models.OrderTypeTakeAway {
		input.TableNumber = nil
	}

	var (
		orderID uint
		err     error
	)
	for attempt := 1; attempt <= maxAllocationAttempts; attempt++ {
		orderID, err = s.createOrderTx(ctx, input)
		if err == nil || !isRetryableAllocation(err) {
			break
		}
		utils.Info(logrus.Fields{"attempt": attempt, "error": err}).Warn("Order allocation conflict, retrying")
	}
	if err != nil {
		if isRetryableAllocation(err) {
			utils.Error(logrus.Fields{"error": err}).Error("Order code allocation exhausted")
			return nil, fmt.Errorf("%w: %v", ErrOrderCodeAllocation, err)
		}
		return nil, err
	}

	order, err := s.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	utils.Info(logrus.Fields{
		"order_id":      order.ID,
		"order_code":    order.OrderCode,
		"customer_name": order.CustomerName,
		"total_amount":  order.TotalAmount,
	}).Info("Order created successfully")

	s.publish(EventOrderCreated, order)
	return order, nil
}

func (s *OrderService) createOrderTx(ctx context.Context, input CreateOrderInput) (uint, error) {
	var orderID uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.catalog.FetchActiveProductsByIDs(ctx, tx, distinctProductIDs(input.Items))
		if err != nil {
			return err
		}

		items, total, err := priceCart(input.Items, products)
		if err != nil {
			return err
		}

		now := s.now()
		alloc, err := s.sequence.Next(tx, now)
		if err != nil {
			return err
		}

		status, paymentStatus := models.OrderStatusInQueue, models.PaymentStatusSettlement
		if input.PaymentMethod == PaymentMethodOnline {
			status, paymentStatus = models.OrderStatusWaitingPayment, models.PaymentStatusPending
		}
		method := input.PaymentMethod

		order := models.Order{
			OrderCode:     alloc.Code,
			Sequence:      alloc.Sequence,
			SequenceDate:  alloc.Day,
			TableNumber:   input.TableNumber,
			CustomerName:  input.CustomerName,
			CustomerEmail: input.CustomerEmail,
			CustomerPhone: input.CustomerPhone,
			OrderType:     input.OrderType,
			TotalAmount:   total,
			Status:        status,
			PaymentMethod: &method,
			PaymentStatus: paymentStatus,
			Notes:         input.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			items[i].CreatedAt = now
			items[i].UpdatedAt = now
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		for productID, qty := range requestedQuantities(input.Items) {
			product := products[productID]
			if !product.IsStockManaged {
				continue
			}
			if err := s.catalog.DecrementStock(ctx, tx, productID, qty); err != nil {
				return err
			}
			utils.Info(logrus.Fields{
				"product_id":      product.ID,
				"product_name":    product.Name,
				"quantity_sold":   qty,
				"remaining_stock": product.AvailableStock() - qty,
			}).Info("Product stock updated")
		}

		orderID = order.ID
		return nil
	})

	return orderID, err
}

// priceCart checks every line against the fetched products and prices it
// from the catalog.
func priceCart(lines []CreateOrderItemInput, products map[uint]models.Product) ([]models.OrderItem, int64, error) {
	requested := requestedQuantities(lines)

	items := make([]models.OrderItem, 0, len(lines))
	var total int64

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, 0, productUnavailable(line.ProductID)
		}

		if product.IsStockManaged && product.AvailableStock() < requested[product.ID] {
			return nil, 0, fmt.Errorf("%w for product: %s. Available: %d, Requested: %d",
				ErrInsufficientStock, product.Name, product.AvailableStock(), requested[product.ID])
		}

		subtotal := product.Price * int64(line.Quantity)
		total += subtotal

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Subtotal:  subtotal,
			Notes:     line.Notes,
			IsDone:    false,
		})
	}

	return items, total, nil
}

func distinctProductIDs(lines []CreateOrderItemInput) []uint {
	seen := make(map[uint]bool, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}

// requestedQuantities sums quantities per product so repeated lines are
// checked against stock together.
func requestedQuantities(lines []CreateOrderItemInput) map[uint]int {
	qty := make(map[uint]int, len(lines))
	for _, line := range lines {
		qty[line.ProductID] += line.Quantity
	}
	return qty
}

func withOrderDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id asc") }).
		Preload("Items.Product.Category")
}

func (s *OrderService) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	return findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("order_code = ?", code))
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return findOrder(withOrderDetails(s.db.WithContext(ctx)).Where("id = ?", id))
}

func findOrder(q *gorm.DB) (*models.Order, error) {
	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// lockOrder reads an order row FOR UPDATE together with its items so the
// caller's read-validate-write cannot interleave with another one.
func lockOrder(tx *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", id, err)
	}
	if err := tx.Where("order_id = ?", id).Order("id asc").Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items of order %d: %w", id, err)
	}
	return &order, nil
}

var perPageOptions = map[int]bool{10: true, 25: true, 50: true, 100: true}

// OrderFilter drives the cashier order list. "all" disables a filter.
type OrderFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	OrderType string `form:"order_type"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

type OrderPage struct {
	Orders   []models.Order `json:"data"`
	Total    int64          `json:"total"`
	Page     int            `json:"current_page"`
	PerPage  int            `json:"per_page"`
	LastPage int            `json:"last_page"`
}

func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	if !perPageOptions[f.PerPage] {
		f.PerPage = 10
	}
	if f.Page < 1 {
		f.Page = 1
	}

	q := s.db.WithContext(ctx).Model(&models.Order{})
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("order_code LIKE ? OR customer_name LIKE ? OR table_number LIKE ?", like, like, like)
	}
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OrderType != "" && f.OrderType != "all" {
		q = q.Where("order_type = ?", f.OrderType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	if err := withOrderDetails(q).
		Order("created_at desc").Order("id desc").
		Limit(f.PerPage).Offset((f.Page - 1) * f.PerPage).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	lastPage := int((total + int64(f.PerPage) - 1) / int64(f.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &OrderPage{
		Orders:   orders,
		Total:    total,
		Page:     f.Page,
		PerPage:  f.PerPage,
		LastPage: lastPage,
	}, nil
}

type AdminItemUpdate struct {
	ID     uint    `json:"id" validate:"required"`
	IsDone *bool   `json:"is_done"`
	Notes  *string `json:"notes" validate:"omitempty,max=1000"`
}

// AdminOrderUpdate is the cashier edit form. Status is checked against the
// enum only; the kitchen graph does not apply here.
type AdminOrderUpdate struct {
	CustomerName  string               `json:"customer_name" validate:"required,max=255"`
	CustomerEmail string               `json:"customer_email" validate:"required,email,max=255"`
	CustomerPhone string               `json:"customer_phone" validate:"required,max=255"`
	TableNumber   *string              `json:"table_number" validate:"omitempty,max=255"`
	Status        models.OrderStatus   `json:"status" validate:"required,order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,payment_status"`
	PaymentMethod *string              `json:"payment_method" validate:"omitempty,max=255"`
	TransactionID *string              `json:"transaction_id" validate:"omitempty,max=255"`
	Notes         *string              `json:"notes" validate:"omitempty,max=1000"`
	Items         []AdminItemUpdate    `json:"items" validate:"omitempty,dive"`
}

func (s *OrderService) UpdateOrder(ctx context.Context, id uint, in AdminOrderUpdate) (*models.Order, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = normalizeEmail(in.CustomerEmail)
	in.TableNumber = trimOptional(in.TableNumber)
	in.PaymentMethod = trimOptional(in.PaymentMethod)
	in.TransactionID = trimOptional(in.TransactionID)
	in.Notes = trimOptional(in.Notes)
	if err := validateStruct(&in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}

		if in.TransactionID != nil {
			var taken int64
			if err := tx.Model(&models.Order{}).
				Where("transaction_id = ? AND id <> ?", *in.TransactionID, order.ID).
				Count(&taken).Error; err != nil {
				return fmt.Errorf("failed to check transaction id: %w", err)
			}
			if taken > 0 {
				return ErrDuplicateTransaction
			}
		}

		for i, upd := range in.Items {
			item, ok := order.Item(upd.ID)
			if !ok {
				return newValidationError(fmt.Sprintf("items[%d].id", i), "does not belong to this order")
			}
			if upd.IsDone != nil && *upd.IsDone != item.IsDone && !IsKitchenFlow(in.Status) {
				return ErrNotInKitchenFlow
			}
		}

		if err := tx.Model(order).Updates(map[string]interface{}{
			"customer_name":  in.CustomerName,
			"customer_email": in.CustomerEmail,
			"customer_phone": in.CustomerPhone,
			"table_number":   in.TableNumber,
			"status":         in.Status,
			"payment_status": in.PaymentStatus,
			"payment_method": in.PaymentMethod,
			"transaction_id": in.TransactionID,
			"notes":          in.Notes,
			"updated_at":     s.now(),
		}).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateTransaction
			}
			return fmt.Errorf("failed to update order %d: %w", order.ID, err)
		}

		for _, upd := range in.Items {
			fields := map[string]interface{}{}
			if upd.IsDone != nil {
				fields["is_done"] = *upd.IsDone
			}
			if upd.Notes != nil {
				fields["notes"] = trimOptional(upd.Notes)
			}
			if len(fields) == 0 {
				continue
			}
			fields["updated_at"] = s.now()
			if err := tx.Model(&models.OrderItem{}).Where("id = ? AND order_id = ?", upd.ID, order.ID).
				Updates(fields).Error; err != nil {
				return fmt.Errorf("failed to update order item %d: %w", upd.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	utils.Info(logrus.Fields{
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"status":     order.Status,
	}).Info("Order updated by staff")

	s.publish(EventOrderUpdated, order)
	return order, nil
}

// DeleteOrder cancels an order by removing it and its items. Orders that are
// ready or completed are kept.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	var code string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, id)
		if err != nil {
			return err
		}
		if !CanDelete(order.Status) {
			return ErrOrderLocked
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %d: %w", order.ID, err)
		}
		if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
			return fmt.Errorf("failed to delete order %d: %w", order.ID, err)
		}
		code = order.OrderCode
		return nil
	})
	if err != nil {
		return err
	}

	utils.Info(logrus.Fields{"order_id": id, "order_code": code}).Info("Order cancelled and deleted")
	s.publish(EventOrderDeleted, map[string]interface{}{"id": id, "order_code": code})
	return nil
}

func (s *OrderService) ListProducts(ctx context.Context, categoryID *uint) ([]models.Product, error) {
	return s.catalog.ListActiveProducts(ctx, s.db, categoryID)
}

func (s *OrderService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.catalog.ListCategories(ctx, s.db)
}
