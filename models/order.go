package models

import (
	"time"

	"gorm.io/datatypes"
)

type Order struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderCode      string          `gorm:"type:varchar(32);not null;uniqueIndex" json:"order_code"`
	Sequence       int             `gorm:"not null;uniqueIndex:idx_orders_day_sequence,priority:2" json:"sequence"`
	SequenceDate   string          `gorm:"type:varchar(8);not null;uniqueIndex:idx_orders_day_sequence,priority:1" json:"sequence_date"`
	TableNumber    *string         `gorm:"type:varchar(10)" json:"table_number"`
	CustomerName   string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail  string          `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone  string          `gorm:"type:varchar(20);not null" json:"customer_phone"`
	OrderType      OrderType       `gorm:"type:varchar(20);not null" json:"order_type"`
	TotalAmount    int64           `gorm:"not null;default:0" json:"total_amount"`
	Status         OrderStatus     `gorm:"type:varchar(20);not null;default:'waiting_payment';index" json:"status"`
	PaymentMethod  *string         `gorm:"type:varchar(255)" json:"payment_method"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	TransactionID  *string         `gorm:"type:varchar(255);uniqueIndex" json:"transaction_id"`
	PaymentPayload *datatypes.JSON `json:"payment_payload,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// AllItemsDone reports whether every loaded item is done. It is derived on
// each call from Items and never stored.
func (o *Order) AllItemsDone() bool {
	for _, item := range o.Items {
		if !item.IsDone {
			return false
		}
	}
	return true
}

// Item returns the loaded item with the given id.
func (o *Order) Item(id uint) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}
