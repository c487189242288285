package models

import "time"

type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`
	Category       Category  `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name           string    `gorm:"type:varchar(255); not null" json:"name"`
	Description    *string   `gorm:"type:text" json:"description"`
	Price          int64     `gorm:"not null" json:"price"`
	Image          *string   `gorm:"type:varchar(255)" json:"image"`
	Stock          *int      `json:"stock"`
	IsStockManaged bool      `gorm:"not null;default:false" json:"is_stock_managed"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// AvailableStock returns the tracked stock, zero when none is recorded.
func (p *Product) AvailableStock() int {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}
