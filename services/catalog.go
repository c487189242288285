package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/ordermenu/models"
	"gorm.io/gorm"
)

// CatalogRepository is the product catalog as seen by order creation. Every
// method runs on the handle it is given so callers can pass a transaction.
type CatalogRepository interface {
	FetchActiveProductsByIDs(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]models.Product, error)
	DecrementStock(ctx context.Context, db *gorm.DB, productID uint, qty int) error
	ListActiveProducts(ctx context.Context, db *gorm.DB, categoryID *uint) ([]models.Product, error)
	ListCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error)
}

type gormCatalog struct{}

func NewCatalogRepository() CatalogRepository {
	return gormCatalog{}
}

func (gormCatalog) FetchActiveProductsByIDs(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]models.Product, error) {
	products := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	var rows []models.Product
	if err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	for _, p := range rows {
		products[p.ID] = p
	}
	return products, nil
}

// DecrementStock takes qty off a stock-managed product. The guarded update
// fails with ErrInsufficientStock instead of letting stock go negative.
func (gormCatalog) DecrementStock(ctx context.Context, db *gorm.DB, productID uint, qty int) error {
	res := db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND is_stock_managed = ? AND stock >= ?", productID, true, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	return nil
}

func (gormCatalog) ListActiveProducts(ctx context.Context, db *gorm.DB, categoryID *uint) ([]models.Product, error) {
	q := db.WithContext(ctx).Preload("Category").Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	if err := q.Order("name asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (gormCatalog) ListCategories(ctx context.Context, db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
