package models

import (
	"context"

	"github.com/ipnlife/clinic_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ProductId int             `gorm:"primary_key" json:"product_id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Code      string          `gorm:"size:50" json:"code"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
}

// ProductListItem is the shape the inventory screens expect.
type ProductListItem struct {
	ProductId    int             `json:"Product_ID"`
	ProductName  string          `json:"ProductName"`
	ProductCode  string          `json:"ProductCode"`
	ProductPrice decimal.Decimal `json:"ProductPrice"`
}

func GetProductList(ctx context.Context) ([]*ProductListItem, error) {
	db := config.GetDB()
	var items []*ProductListItem
	err := db.WithContext(ctx).Raw(`
		SELECT p.product_id AS product_id,
		       p.name AS product_name,
		       p.code AS product_code,
		       p.price AS product_price
		FROM product p
		ORDER BY p.name`).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func GetProductById(ctx context.Context, productId int) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).First(&product, "product_id = ?", productId).Error
	if err == gorm.ErrRecordNotFound {
		return nil, notFoundError("product %d not found", productId)
	} else if err != nil {
		return nil, err
	}
	return &product, nil
}
